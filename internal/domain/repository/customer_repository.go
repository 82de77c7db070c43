package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// RecomputeStats recalcula TotalOrders, TotalSpent y LastOrder desde las ventas
	// no reembolsadas del cliente. Es idempotente.
	RecomputeStats(ctx context.Context, id string) (*entity.Customer, error)
}
