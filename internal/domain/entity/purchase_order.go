package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderStatusPending   = "PENDING"
	PurchaseOrderStatusConfirmed = "CONFIRMED"
	PurchaseOrderStatusShipped   = "SHIPPED"
	PurchaseOrderStatusReceived  = "RECEIVED"
	PurchaseOrderStatusCancelled = "CANCELLED"
)

// Eventos de la línea de tiempo de la orden.
const (
	PurchaseOrderEventCreated   = "CREATED"
	PurchaseOrderEventConfirmed = "CONFIRMED"
	PurchaseOrderEventShipped   = "SHIPPED"
	PurchaseOrderEventReceived  = "RECEIVED"
	PurchaseOrderEventCancelled = "CANCELLED"
)

// PurchaseOrder representa una orden de compra a un proveedor.
// El inventario solo cambia al recibirla.
type PurchaseOrder struct {
	ID           string
	PONumber     string
	SupplierID   string
	UserID       string
	Status       string
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	ExpectedDate *time.Time
	ReceivedDate *time.Time
	Items        []PurchaseOrderItem
	Timeline     []PurchaseOrderEvent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseOrderItem es una línea de la orden.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	Quantity         int
	ReceivedQuantity int
	UnitCost         decimal.Decimal
	Total            decimal.Decimal
}

// PurchaseOrderEvent entrada append-only de la línea de tiempo.
type PurchaseOrderEvent struct {
	ID              string
	PurchaseOrderID string
	Status          string
	Description     string
	UserID          string
	CreatedAt       time.Time
}
