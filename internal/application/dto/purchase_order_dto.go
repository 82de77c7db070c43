package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplier_id"`
	Tax          decimal.Decimal            `json:"tax"`
	Shipping     decimal.Decimal            `json:"shipping"`
	Notes        string                     `json:"notes,omitempty"`
	ExpectedDate *time.Time                 `json:"expected_date,omitempty"`
	Items        []PurchaseOrderItemRequest `json:"items"`
}

// PurchaseOrderItemRequest línea de orden de compra. UnitCost vacío toma el costo del producto.
type PurchaseOrderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
// Items vacío recibe todas las cantidades pedidas.
type ReceivePurchaseOrderRequest struct {
	Items []ReceivedItemRequest `json:"items,omitempty"`
}

// ReceivedItemRequest override de cantidad recibida por línea (item_id o product_id).
// Sin quantity se recibe lo pedido.
type ReceivedItemRequest struct {
	ItemID    string `json:"item_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// CancelPurchaseOrderRequest body para POST /api/purchase-orders/:id/cancel.
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason"`
}

// PurchaseOrderResponse orden de compra con líneas y línea de tiempo.
type PurchaseOrderResponse struct {
	ID           string                       `json:"id"`
	PONumber     string                       `json:"po_number"`
	SupplierID   string                       `json:"supplier_id"`
	UserID       string                       `json:"user_id"`
	Status       string                       `json:"status"`
	Subtotal     decimal.Decimal              `json:"subtotal"`
	Tax          decimal.Decimal              `json:"tax"`
	Shipping     decimal.Decimal              `json:"shipping"`
	Total        decimal.Decimal              `json:"total"`
	Notes        string                       `json:"notes,omitempty"`
	ExpectedDate *time.Time                   `json:"expected_date,omitempty"`
	ReceivedDate *time.Time                   `json:"received_date,omitempty"`
	Items        []PurchaseOrderItemResponse  `json:"items"`
	Timeline     []PurchaseOrderEventResponse `json:"timeline"`
	CreatedAt    time.Time                    `json:"created_at"`
}

// PurchaseOrderItemResponse línea en respuestas.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	ReceivedQuantity int             `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Total            decimal.Decimal `json:"total"`
}

// PurchaseOrderEventResponse evento de la línea de tiempo.
type PurchaseOrderEventResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPurchaseOrderResponse mapea la entidad a la respuesta.
func NewPurchaseOrderResponse(po *entity.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:           po.ID,
		PONumber:     po.PONumber,
		SupplierID:   po.SupplierID,
		UserID:       po.UserID,
		Status:       po.Status,
		Subtotal:     po.Subtotal,
		Tax:          po.Tax,
		Shipping:     po.Shipping,
		Total:        po.Total,
		Notes:        po.Notes,
		ExpectedDate: po.ExpectedDate,
		ReceivedDate: po.ReceivedDate,
		Items:        make([]PurchaseOrderItemResponse, 0, len(po.Items)),
		Timeline:     make([]PurchaseOrderEventResponse, 0, len(po.Timeline)),
		CreatedAt:    po.CreatedAt,
	}
	for _, it := range po.Items {
		resp.Items = append(resp.Items, PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
			Total:            it.Total,
		})
	}
	for _, ev := range po.Timeline {
		resp.Timeline = append(resp.Timeline, PurchaseOrderEventResponse{
			Status:      ev.Status,
			Description: ev.Description,
			UserID:      ev.UserID,
			CreatedAt:   ev.CreatedAt,
		})
	}
	return resp
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
