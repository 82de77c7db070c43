package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ledger/pkg/config"
)

// setupTestDB abre la base indicada por TEST_DATABASE_URL; sin ella el test se omite.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	_, err = pool.Exec(ctx, `TRUNCATE activity_logs, inventory_movements, purchase_order_events, purchase_order_items,
		purchase_orders, sale_items, sales, suppliers, customers, products CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestLedger_ConcurrentDecrementsKeepStockAndLedgerConsistent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	now := time.Now().UTC()
	product := &entity.Product{
		ID: uuid.NewString(), SKU: "CONC-1", Name: "Concurrente",
		Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(4),
		MinStock: 2, Status: entity.ProductStatusOutOfStock, CreatedAt: now, UpdatedAt: now,
	}
	products := postgres.NewProductRepository(pool)
	require.NoError(t, products.Create(ctx, product))

	runner := postgres.NewTxRunner(pool)
	ledger := inventory.NewStockLedger()

	apply := func(qty int) error {
		return runner.Run(ctx, func(repos repository.TxRepositories) error {
			_, _, err := ledger.ApplyInTx(ctx, repos, inventory.StockChange{
				ProductID: product.ID, Type: entity.MovementTypeAdjustment, Quantity: qty,
				SourceType: entity.MovementSourceManual, SourceID: uuid.NewString(),
			})
			return err
		})
	}
	require.NoError(t, apply(10))

	var wg sync.WaitGroup
	errs := make(chan error, 15)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- apply(-1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, -5, got.Stock)
	assert.Equal(t, entity.ProductStatusOutOfStock, got.Status)

	sum, err := postgres.NewInventoryMovementRepository(pool).SumByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Stock, sum)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	now := time.Now().UTC()
	p := &entity.Product{ID: uuid.NewString(), SKU: "RB-1", Name: "Rollback", Status: entity.ProductStatusOutOfStock, CreatedAt: now, UpdatedAt: now}

	err := postgres.NewTxRunner(pool).Run(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
