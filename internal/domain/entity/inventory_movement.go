package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeSale       = "SALE"       // salida por venta (cantidad negativa)
	MovementTypePurchase   = "PURCHASE"   // entrada por compra (positiva)
	MovementTypeReturn     = "RETURN"     // devolución o reverso (positiva)
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste con signo libre
	MovementTypeTransfer   = "TRANSFER"   // traslado entrante (+) o saliente (-)
)

// Origen tipado del movimiento (reemplaza el emparejamiento por texto de Reference).
const (
	MovementSourceSale          = "SALE"
	MovementSourcePurchaseOrder = "PURCHASE_ORDER"
	MovementSourceManual        = "MANUAL"
	MovementSourceProduct       = "PRODUCT"
)

// InventoryMovement es un registro inmutable de un cambio de stock.
// Nunca se actualiza ni se elimina: las correcciones son movimientos compensatorios.
type InventoryMovement struct {
	ID         string
	ProductID  string
	UserID     string
	Type       string
	Quantity   int    // negativo sale del stock, positivo entra
	Reference  string // factura, número de OC, etc.
	SourceType string
	SourceID   string
	Notes      string
	CreatedAt  time.Time
}
