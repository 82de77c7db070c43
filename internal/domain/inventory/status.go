package inventory

import (
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// DeriveStatus clasifica el stock: <=0 agotado, (0, minStock] bajo, resto disponible.
// El stock negativo (sobreventa) se tolera y se clasifica como agotado.
func DeriveStatus(stock, minStock int) string {
	switch {
	case stock <= 0:
		return entity.ProductStatusOutOfStock
	case stock <= minStock:
		return entity.ProductStatusLowStock
	default:
		return entity.ProductStatusInStock
	}
}

// ResolveStatus aplica DeriveStatus salvo que el producto esté descontinuado:
// DISCONTINUED solo se limpia con una acción administrativa explícita.
func ResolveStatus(current string, stock, minStock int) string {
	if current == entity.ProductStatusDiscontinued {
		return current
	}
	return DeriveStatus(stock, minStock)
}

// ApplyStockDelta aplica delta sobre el producto (negativo salida, positivo entrada)
// y devuelve el nuevo stock y estado. No impone piso en cero.
func ApplyStockDelta(p *entity.Product, delta int, now time.Time) (int, string) {
	p.Stock += delta
	p.Status = ResolveStatus(p.Status, p.Stock, p.MinStock)
	if delta > 0 {
		t := now
		p.LastRestocked = &t
	}
	p.UpdatedAt = now
	return p.Stock, p.Status
}

// ValidateMovementSign verifica la convención de signos por tipo de movimiento.
func ValidateMovementSign(movementType string, quantity int) bool {
	switch movementType {
	case entity.MovementTypeSale:
		return quantity < 0
	case entity.MovementTypePurchase, entity.MovementTypeReturn:
		return quantity > 0
	case entity.MovementTypeAdjustment, entity.MovementTypeTransfer:
		return quantity != 0
	default:
		return false
	}
}
