package purchasing

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
)

// CreateFromRequest adapta el request HTTP al caso de uso CreatePurchaseOrder.
func (uc *PurchaseOrderUseCase) CreateFromRequest(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	input := CreatePurchaseOrderInput{
		UserID:       userID,
		SupplierID:   in.SupplierID,
		Tax:          in.Tax,
		Shipping:     in.Shipping,
		Notes:        in.Notes,
		ExpectedDate: in.ExpectedDate,
		Items:        make([]PurchaseOrderItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, PurchaseOrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	po, err := uc.CreatePurchaseOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	out := dto.NewPurchaseOrderResponse(po)
	return &out, nil
}

// ReceiveFromRequest adapta el request HTTP al caso de uso ReceivePurchaseOrder.
func (uc *PurchaseOrderUseCase) ReceiveFromRequest(ctx context.Context, poID, userID string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	items := make([]ReceivedItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ReceivedItem{ItemID: it.ItemID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	po, err := uc.ReceivePurchaseOrder(ctx, poID, items, userID)
	if err != nil {
		return nil, err
	}
	out := dto.NewPurchaseOrderResponse(po)
	return &out, nil
}
