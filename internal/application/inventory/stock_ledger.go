package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-ledger/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// StockChange describe un cambio de stock y el movimiento que lo documenta.
type StockChange struct {
	ProductID  string
	UserID     string
	Type       string
	Quantity   int // con signo
	Reference  string
	SourceType string
	SourceID   string
	Notes      string
}

// LockOrder devuelve los índices 0..n-1 ordenados por ProductID (estable). Las operaciones de varias
// líneas aplican sus cambios en este orden para tomar los locks de fila siempre en la misma secuencia.
func LockOrder(n int, productID func(i int) string) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return productID(idx[a]) < productID(idx[b]) })
	return idx
}

// StockLedger aplica cambios de stock y escribe el movimiento correspondiente
// usando los repositorios de la transacción del llamador.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el libro de movimientos.
func NewStockLedger() *StockLedger {
	return &StockLedger{now: time.Now}
}

// ApplyInTx incrementa el stock de forma atómica, resuelve el estado derivado mientras la fila
// sigue bloqueada y agrega el movimiento. Cualquier error obliga al llamador a hacer rollback.
func (l *StockLedger) ApplyInTx(
	ctx context.Context,
	repos repository.TxRepositories,
	change StockChange,
) (*entity.InventoryMovement, *entity.Product, error) {
	if change.ProductID == "" {
		return nil, nil, domain.Invalid("product_id es obligatorio")
	}
	if !domaininv.ValidateMovementSign(change.Type, change.Quantity) {
		return nil, nil, domain.Invalid("cantidad %d no válida para movimiento %s", change.Quantity, change.Type)
	}
	now := l.now()

	product, err := repos.Products.IncrementStock(ctx, change.ProductID, change.Quantity, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.NotFound("producto %s", change.ProductID)
		}
		return nil, nil, fmt.Errorf("increment stock: %w", err)
	}

	status := domaininv.ResolveStatus(product.Status, product.Stock, product.MinStock)
	if status != product.Status {
		if err := repos.Products.UpdateStatus(ctx, product.ID, status); err != nil {
			return nil, nil, fmt.Errorf("update product status: %w", err)
		}
		product.Status = status
	}

	mov := &entity.InventoryMovement{
		ID:         uuid.New().String(),
		ProductID:  change.ProductID,
		UserID:     change.UserID,
		Type:       change.Type,
		Quantity:   change.Quantity,
		Reference:  change.Reference,
		SourceType: change.SourceType,
		SourceID:   change.SourceID,
		Notes:      change.Notes,
		CreatedAt:  now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, nil, fmt.Errorf("insert movement: %w", err)
	}
	return mov, product, nil
}
