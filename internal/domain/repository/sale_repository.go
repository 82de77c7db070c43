package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// Create persiste cabecera y líneas. InvoiceID duplicado -> domain.ErrDuplicate.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate obtiene la venta bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update actualiza estado y campos de reembolso.
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
