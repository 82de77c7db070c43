package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// GetSale devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s == nil {
		return nil, domain.NotFound("venta %s", id)
	}
	return s, nil
}

// ListSales lista ventas por cliente y/o estado.
func (uc *SaleUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return list, nil
}
