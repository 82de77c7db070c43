package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	// RecomputeStats recalcula TotalOrders, TotalValue y LastOrder desde todas las
	// órdenes de compra del proveedor. Es idempotente.
	RecomputeStats(ctx context.Context, id string) (*entity.Supplier, error)
}
