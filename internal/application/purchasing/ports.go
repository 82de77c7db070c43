package purchasing

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye compras, inventario y proveedores.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// StockLedger aplica entradas de stock con su movimiento dentro de la transacción del caller.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.TxRepositories, change inventory.StockChange) (*entity.InventoryMovement, *entity.Product, error)
}
