package sales

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
)

// CreateSaleFromRequest adapta el request HTTP al caso de uso CreateSale.
func (uc *SaleUseCase) CreateSaleFromRequest(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	input := CreateSaleInput{
		UserID:     userID,
		CustomerID: in.CustomerID,
		Status:     in.Status,
		Tax:        in.Tax,
		Discount:   in.Discount,
		Shipping:   in.Shipping,
		Notes:      in.Notes,
		Items:      make([]SaleItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	sale, err := uc.CreateSale(ctx, input)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(sale)
	return &out, nil
}

// RefundSaleFromRequest adapta el request HTTP al caso de uso RefundSale.
func (uc *SaleUseCase) RefundSaleFromRequest(ctx context.Context, saleID, userID string, in dto.RefundSaleRequest) (*dto.RefundResponse, error) {
	res, err := uc.RefundSale(ctx, saleID, RefundInput{
		Reason:           in.Reason,
		RefundAmount:     in.RefundAmount,
		RestoreInventory: in.RestoreInventory,
	}, userID)
	if err != nil {
		return nil, err
	}
	return &dto.RefundResponse{
		SaleID:            res.Sale.ID,
		InvoiceID:         res.Sale.InvoiceID,
		Status:            res.Sale.Status,
		RefundAmount:      res.RefundAmount,
		InventoryRestored: res.InventoryRestored,
		Movements:         dto.NewMovementList(res.Movements),
	}, nil
}
