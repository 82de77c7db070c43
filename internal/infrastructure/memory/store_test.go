package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, s *memory.Store, id, sku string, stock, min int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, SKU: sku, Name: sku, Price: decimal.NewFromInt(10), Stock: stock, MinStock: min,
		Status: entity.ProductStatusInStock,
	}))
}

func TestRun_CommitPublishesChanges(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10, 2)

	err := s.Run(ctx, func(repos repository.TxRepositories) error {
		_, err := repos.Products.IncrementStock(ctx, "p1", -3, time.Now())
		return err
	})
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
}

func TestRun_ErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10, 2)
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos repository.TxRepositories) error {
		if _, err := repos.Products.IncrementStock(ctx, "p1", 5, time.Now()); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", ProductID: "p1", Quantity: 5}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 10, p.Stock)
	sum, err := s.Movements().SumByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestProducts_DuplicateSKU(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 0, 0)

	err := s.Products().Create(context.Background(), &entity.Product{ID: "p2", SKU: "sku-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProducts_IncrementStockMissing(t *testing.T) {
	s := memory.NewStore()
	_, err := s.Products().IncrementStock(context.Background(), "nope", 1, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomers_RecomputeSkipsRefunded(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c1", Name: "Ana"}))
	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, st := range []string{entity.SaleStatusPending, entity.SaleStatusCompleted, entity.SaleStatusRefunded} {
		require.NoError(t, s.Sales().Create(ctx, &entity.Sale{
			ID: string(rune('a' + i)), InvoiceID: "INV-" + string(rune('a'+i)), CustomerID: "c1",
			Status: st, Total: decimal.NewFromInt(int64(100 * (i + 1))), CreatedAt: t0.AddDate(0, 0, i),
		}))
	}

	first, err := s.Customers().RecomputeStats(ctx, "c1")
	require.NoError(t, err)
	second, err := s.Customers().RecomputeStats(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, 2, first.TotalOrders)
	assert.True(t, first.TotalSpent.Equal(decimal.NewFromInt(300)))
	require.NotNil(t, first.LastOrder)
	assert.True(t, first.LastOrder.Equal(t0.AddDate(0, 0, 1)))
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.True(t, first.TotalSpent.Equal(second.TotalSpent))
}

func TestMovements_ListByProductNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 0, 0)
	t0 := time.Now()
	for i, q := range []int{5, -2, 3} {
		require.NoError(t, s.Movements().Create(ctx, &entity.InventoryMovement{
			ID: string(rune('x' + i)), ProductID: "p1", Quantity: q, CreatedAt: t0.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := s.Movements().ListByProduct(ctx, "p1", nil, nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].Quantity)
	assert.Equal(t, -2, list[1].Quantity)

	sum, err := s.Movements().SumByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, sum)
}
