package inventory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RecordInventoryMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RecordInventoryMovement(ctx, MovementInput{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewMovementResponse(mov)
	return &out, nil
}

// ReconcileDTO devuelve la conciliación en formato de respuesta.
func (uc *RegisterMovementUseCase) ReconcileDTO(ctx context.Context, productID string) (*dto.ReconciliationDTO, error) {
	r, err := uc.Reconcile(ctx, productID)
	if err != nil {
		return nil, err
	}
	diff := r.Difference()
	return &dto.ReconciliationDTO{
		ProductID:  r.Product.ID,
		SKU:        r.Product.SKU,
		Stock:      r.Product.Stock,
		LedgerSum:  r.LedgerSum,
		Difference: diff,
		Consistent: diff == 0,
	}, nil
}
