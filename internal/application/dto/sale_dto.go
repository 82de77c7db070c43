package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
// Subtotal y Total se calculan en el servidor a partir de las líneas.
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id,omitempty"`
	Status     string            `json:"status,omitempty"` // PENDING (default) | COMPLETED
	Tax        decimal.Decimal   `json:"tax"`
	Discount   decimal.Decimal   `json:"discount"`
	Shipping   decimal.Decimal   `json:"shipping"`
	Notes      string            `json:"notes,omitempty"`
	Items      []SaleItemRequest `json:"items"`
}

// SaleItemRequest línea de venta. UnitPrice vacío toma el precio del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// RefundSaleRequest body para POST /api/sales/:id/refund.
type RefundSaleRequest struct {
	Reason           string           `json:"reason"`
	RefundAmount     *decimal.Decimal `json:"refund_amount,omitempty"`
	RestoreInventory *bool            `json:"restore_inventory,omitempty"` // default true
}

// SaleResponse venta con detalle.
type SaleResponse struct {
	ID           string             `json:"id"`
	InvoiceID    string             `json:"invoice_id"`
	CustomerID   string             `json:"customer_id,omitempty"`
	UserID       string             `json:"user_id"`
	Status       string             `json:"status"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"tax"`
	Discount     decimal.Decimal    `json:"discount"`
	Shipping     decimal.Decimal    `json:"shipping"`
	Total        decimal.Decimal    `json:"total"`
	Notes        string             `json:"notes,omitempty"`
	RefundReason string             `json:"refund_reason,omitempty"`
	RefundAmount *decimal.Decimal   `json:"refund_amount,omitempty"`
	RefundedAt   *time.Time         `json:"refunded_at,omitempty"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// RefundResponse resultado de un reembolso.
type RefundResponse struct {
	SaleID            string             `json:"sale_id"`
	InvoiceID         string             `json:"invoice_id"`
	Status            string             `json:"status"`
	RefundAmount      decimal.Decimal    `json:"refund_amount"`
	InventoryRestored bool               `json:"inventory_restored"`
	Movements         []MovementResponse `json:"movements"`
}

// NewSaleResponse mapea la entidad a la respuesta.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:           s.ID,
		InvoiceID:    s.InvoiceID,
		CustomerID:   s.CustomerID,
		UserID:       s.UserID,
		Status:       s.Status,
		Subtotal:     s.Subtotal,
		Tax:          s.Tax,
		Discount:     s.Discount,
		Shipping:     s.Shipping,
		Total:        s.Total,
		Notes:        s.Notes,
		RefundReason: s.RefundReason,
		RefundedAt:   s.RefundedAt,
		Items:        make([]SaleItemResponse, 0, len(s.Items)),
		CreatedAt:    s.CreatedAt,
	}
	if s.Status == entity.SaleStatusRefunded {
		amount := s.RefundAmount
		resp.RefundAmount = &amount
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return resp
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
