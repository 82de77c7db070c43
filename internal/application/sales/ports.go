package sales

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye ventas, inventario y clientes.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// StockLedger integra ventas con inventario: aplica el cambio de stock y escribe el movimiento
// con los repositorios del caller (misma transacción). Si retorna error, el caller hace rollback.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.TxRepositories, change inventory.StockChange) (*entity.InventoryMovement, *entity.Product, error)
}
