package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/purchasing"
	"github.com/jhoicas/retail-ledger/internal/application/sales"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ sales.TxRunner      = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
	_ usecase.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories construye el juego completo de repos sobre q (pool para lecturas, tx dentro de Run).
func Repositories(q Querier) repository.TxRepositories {
	return repository.TxRepositories{
		Products:       NewProductRepository(q),
		Movements:      NewInventoryMovementRepository(q),
		Sales:          NewSaleRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Customers:      NewCustomerRepository(q),
		Suppliers:      NewSupplierRepository(q),
	}
}
