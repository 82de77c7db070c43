package usecase

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// StockLedger registra el stock inicial de un producto como movimiento.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.TxRepositories, change inventory.StockChange) (*entity.InventoryMovement, *entity.Product, error)
}
