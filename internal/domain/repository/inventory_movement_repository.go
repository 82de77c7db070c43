package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// InventoryMovementRepository define el puerto del libro de movimientos.
// Es append-only: no existen operaciones de actualización ni borrado.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entity.InventoryMovement, error)
	// SumByProduct devuelve la suma de cantidades de todos los movimientos del producto.
	SumByProduct(ctx context.Context, productID string) (int, error)
}
