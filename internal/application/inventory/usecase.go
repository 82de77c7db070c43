package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// manualTypes tipos permitidos para movimientos registrados directamente (SALE solo lo emite una venta).
var manualTypes = map[string]bool{
	entity.MovementTypeAdjustment: true,
	entity.MovementTypeReturn:     true,
	entity.MovementTypeTransfer:   true,
	entity.MovementTypePurchase:   true,
}

// MovementInput entrada para registrar un movimiento manual.
type MovementInput struct {
	UserID    string
	ProductID string
	Type      string
	Quantity  int
	Reference string
	Notes     string
}

// RegisterMovementUseCase registra movimientos manuales y expone las lecturas del libro.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	ledger       *StockLedger
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
	audit        audit.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	productRepo repository.ProductRepository,
	movementRepo repository.InventoryMovementRepository,
	auditLog audit.Logger,
) *RegisterMovementUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		audit:        auditLog,
	}
}

// RecordInventoryMovement valida el tipo, aplica la cantidad con signo al stock, deriva el estado
// y escribe el movimiento, todo en una transacción.
func (uc *RegisterMovementUseCase) RecordInventoryMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	if !manualTypes[in.Type] {
		return nil, domain.Invalid("tipo de movimiento %q no permitido", in.Type)
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}

	var (
		mov     *entity.InventoryMovement
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		var err error
		mov, product, err = uc.ledger.ApplyInTx(ctx, repos, StockChange{
			ProductID:  in.ProductID,
			UserID:     in.UserID,
			Type:       in.Type,
			Quantity:   in.Quantity,
			Reference:  in.Reference,
			SourceType: entity.MovementSourceManual,
			Notes:      in.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	severity := entity.SeverityInfo
	if product.Status == entity.ProductStatusOutOfStock {
		severity = entity.SeverityWarning
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      in.UserID,
		Module:      audit.ModuleInventory,
		Action:      "movement.recorded",
		Severity:    severity,
		Description: fmt.Sprintf("%s %+d sobre %s (stock %d, %s)", in.Type, in.Quantity, product.SKU, product.Stock, product.Status),
	})
	return mov, nil
}

// GetMovement devuelve un movimiento por ID.
func (uc *RegisterMovementUseCase) GetMovement(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if m == nil {
		return nil, domain.NotFound("movimiento %s", id)
	}
	return m, nil
}

// ListProductMovements historial de movimientos del producto, más recientes primero.
func (uc *RegisterMovementUseCase) ListProductMovements(
	ctx context.Context,
	productID string,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.InventoryMovement, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListByProduct(ctx, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

// ListBySource movimientos generados por una venta, orden de compra u operación manual.
func (uc *RegisterMovementUseCase) ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entity.InventoryMovement, error) {
	switch sourceType {
	case entity.MovementSourceSale, entity.MovementSourcePurchaseOrder, entity.MovementSourceManual, entity.MovementSourceProduct:
	default:
		return nil, domain.Invalid("source_type inválido: %q", sourceType)
	}
	if sourceID == "" {
		return nil, domain.Invalid("source_id es obligatorio")
	}
	list, err := uc.movementRepo.ListBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by source: %w", err)
	}
	return list, nil
}

// Reconciliation resultado de comparar stock contra el libro.
type Reconciliation struct {
	Product   *entity.Product
	LedgerSum int
}

// Difference stock menos suma del libro; cero cuando cuadran.
func (r Reconciliation) Difference() int {
	return r.Product.Stock - r.LedgerSum
}

// Reconcile compara el stock del producto con la suma de sus movimientos.
func (uc *RegisterMovementUseCase) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("producto %s", productID)
	}
	sum, err := uc.movementRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("sum movements: %w", err)
	}
	return &Reconciliation{Product: p, LedgerSum: sum}, nil
}

func (uc *RegisterMovementUseCase) requireProduct(ctx context.Context, productID string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return domain.NotFound("producto %s", productID)
	}
	return nil
}
