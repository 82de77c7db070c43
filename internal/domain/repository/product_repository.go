package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Statuses []string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Get* devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica datos de catálogo y estado. No toca Stock (solo vía IncrementStock).
	Update(ctx context.Context, product *entity.Product) error
	// IncrementStock aplica stock = stock + delta en una sola sentencia atómica y devuelve la fila
	// resultante. Si delta > 0 marca last_restocked = at. Devuelve domain.ErrNotFound si no existe.
	IncrementStock(ctx context.Context, id string, delta int, at time.Time) (*entity.Product, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// IsReferenced indica si alguna línea de venta, orden de compra o movimiento apunta al producto.
	IsReferenced(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
