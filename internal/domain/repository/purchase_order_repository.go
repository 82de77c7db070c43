package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// PurchaseOrderFilter filtros para listar órdenes de compra.
type PurchaseOrderFilter struct {
	SupplierID string
	Status     string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra,
// sus líneas y su línea de tiempo.
type PurchaseOrderRepository interface {
	// Create persiste cabecera, líneas y eventos iniciales. PONumber duplicado -> domain.ErrDuplicate.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update actualiza estado, notas y fecha de recepción.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	UpdateItemReceived(ctx context.Context, itemID string, receivedQuantity int) error
	AppendEvent(ctx context.Context, event *entity.PurchaseOrderEvent) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
}
