package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity lleva signo: negativo sale del stock, positivo entra.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // ADJUSTMENT | RETURN | TRANSFER | PURCHASE
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementResponse movimiento de inventario en respuestas.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Reference  string    `json:"reference,omitempty"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMovementResponse mapea la entidad a la respuesta.
func NewMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		UserID:     m.UserID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		Reference:  m.Reference,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}

// NewMovementList mapea una lista de movimientos.
func NewMovementList(list []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementResponse(m))
	}
	return out
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra en o por debajo de su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	Status             string          `json:"status"`
	CurrentStock       int             `json:"current_stock"`
	MinStock           int             `json:"min_stock"`
	TargetStock        int             `json:"target_stock"`         // MaxStock o 2*MinStock
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // TargetStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// ReconciliationDTO compara el stock del producto con la suma de su libro de movimientos.
type ReconciliationDTO struct {
	ProductID  string `json:"product_id"`
	SKU        string `json:"sku"`
	Stock      int    `json:"stock"`
	LedgerSum  int    `json:"ledger_sum"`
	Difference int    `json:"difference"`
	Consistent bool   `json:"consistent"`
}
