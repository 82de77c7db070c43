package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición con los productos en stock bajo o agotados.
type ReplenishmentUseCase struct {
	productRepo ProductLister
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo ProductLister) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// TargetStock nivel al que se repone: MaxStock si está definido, si no el doble del mínimo.
func TargetStock(p *entity.Product) int {
	if p.MaxStock > 0 {
		return p.MaxStock
	}
	return 2 * p.MinStock
}

// GenerateReplenishmentList devuelve los productos LOW_STOCK u OUT_OF_STOCK con la cantidad sugerida
// de pedido, ordenados por déficit (mayor primero). Los descontinuados no se reponen.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{
		Statuses: []string{entity.ProductStatusLowStock, entity.ProductStatusOutOfStock},
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		target := TargetStock(p)
		qty := target - p.Stock
		if qty <= 0 {
			continue
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			Status:             p.Status,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			TargetStock:        target,
			SuggestedOrderQty:  qty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	// Mayor déficit primero; a igual déficit, agotados antes que bajos y luego por SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.SuggestedOrderQty != b.SuggestedOrderQty {
			return a.SuggestedOrderQty > b.SuggestedOrderQty
		}
		if a.Status != b.Status {
			return a.Status == entity.ProductStatusOutOfStock
		}
		return a.SKU < b.SKU
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
