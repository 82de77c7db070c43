package inventory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// TxRunner abre una transacción y entrega productos y movimientos atados a ella.
// Stock, estado y movimiento se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// ProductLister lectura de catálogo filtrada por estado; basta para la lista de reposición.
type ProductLister interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
}
