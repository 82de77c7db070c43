package purchasing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// PurchaseOrderUseCase gestiona el ciclo de vida de las órdenes de compra.
// El inventario solo cambia al recibir la orden.
type PurchaseOrderUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	poRepo   repository.PurchaseOrderRepository
	audit    audit.Logger
	now      func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(txRunner TxRunner, ledger StockLedger, poRepo repository.PurchaseOrderRepository, auditLog audit.Logger) *PurchaseOrderUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &PurchaseOrderUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		poRepo:   poRepo,
		audit:    auditLog,
		now:      time.Now,
	}
}

// CreatePurchaseOrderInput entrada para crear una orden.
type CreatePurchaseOrderInput struct {
	UserID       string
	SupplierID   string
	Tax          decimal.Decimal
	Shipping     decimal.Decimal
	Notes        string
	ExpectedDate *time.Time
	Items        []PurchaseOrderItemInput
}

// PurchaseOrderItemInput línea solicitada. UnitCost nil toma el costo vigente del producto.
type PurchaseOrderItemInput struct {
	ProductID string
	Quantity  int
	UnitCost  *decimal.Decimal
}

func (in CreatePurchaseOrderInput) validate() error {
	if in.SupplierID == "" {
		return domain.Invalid("supplier_id es obligatorio")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("la orden debe tener al menos un ítem")
	}
	if in.Tax.IsNegative() || in.Shipping.IsNegative() {
		return domain.Invalid("impuesto y envío no pueden ser negativos")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.Invalid("ítem %d: product_id es obligatorio", i+1)
		}
		if it.Quantity <= 0 {
			return domain.Invalid("ítem %d: la cantidad debe ser mayor que cero", i+1)
		}
		if it.UnitCost != nil && it.UnitCost.IsNegative() {
			return domain.Invalid("ítem %d: el costo no puede ser negativo", i+1)
		}
	}
	return nil
}

// CreatePurchaseOrder crea la orden en PENDING con su evento CREATED y recalcula los agregados
// del proveedor. No toca el inventario.
func (uc *PurchaseOrderUseCase) CreatePurchaseOrder(ctx context.Context, in CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		PONumber:     newPONumber(now),
		SupplierID:   in.SupplierID,
		UserID:       in.UserID,
		Status:       entity.PurchaseOrderStatusPending,
		Tax:          in.Tax,
		Shipping:     in.Shipping,
		Notes:        in.Notes,
		ExpectedDate: in.ExpectedDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		sup, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return fmt.Errorf("get supplier: %w", err)
		}
		if sup == nil {
			return domain.NotFound("proveedor %s", in.SupplierID)
		}

		subtotal := decimal.Zero
		for _, it := range in.Items {
			p, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			if p == nil {
				return domain.NotFound("producto %s", it.ProductID)
			}
			cost := p.Cost
			if it.UnitCost != nil {
				cost = *it.UnitCost
			}
			line := cost.Mul(decimal.NewFromInt(int64(it.Quantity)))
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				ID:              uuid.New().String(),
				PurchaseOrderID: po.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitCost:        cost,
				Total:           line,
			})
			subtotal = subtotal.Add(line)
		}
		po.Subtotal = subtotal
		po.Total = subtotal.Add(po.Tax).Add(po.Shipping)
		po.Timeline = []entity.PurchaseOrderEvent{
			newEvent(po.ID, entity.PurchaseOrderEventCreated, fmt.Sprintf("Orden %s creada", po.PONumber), in.UserID, now),
		}

		if err := repos.PurchaseOrders.Create(ctx, po); err != nil {
			return fmt.Errorf("insert purchase order: %w", err)
		}
		return recomputeSupplier(ctx, repos, po.SupplierID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      in.UserID,
		Module:      audit.ModulePurchasing,
		Action:      "po.created",
		Description: fmt.Sprintf("Orden %s por %s", po.PONumber, po.Total.StringFixed(2)),
	})
	return po, nil
}

// ConfirmPurchaseOrder PENDING -> CONFIRMED.
func (uc *PurchaseOrderUseCase) ConfirmPurchaseOrder(ctx context.Context, poID, actorID string) (*entity.PurchaseOrder, error) {
	return uc.advance(ctx, poID, actorID,
		[]string{entity.PurchaseOrderStatusPending},
		entity.PurchaseOrderStatusConfirmed, entity.PurchaseOrderEventConfirmed, "Orden confirmada por el proveedor")
}

// ShipPurchaseOrder CONFIRMED -> SHIPPED.
func (uc *PurchaseOrderUseCase) ShipPurchaseOrder(ctx context.Context, poID, actorID string) (*entity.PurchaseOrder, error) {
	return uc.advance(ctx, poID, actorID,
		[]string{entity.PurchaseOrderStatusConfirmed},
		entity.PurchaseOrderStatusShipped, entity.PurchaseOrderEventShipped, "Orden despachada")
}

// CancelPurchaseOrder cancela una orden que no esté RECEIVED ni CANCELLED. No hay efecto en inventario.
func (uc *PurchaseOrderUseCase) CancelPurchaseOrder(ctx context.Context, poID, reason, actorID string) (*entity.PurchaseOrder, error) {
	desc := "Orden cancelada"
	if r := strings.TrimSpace(reason); r != "" {
		desc += ": " + r
	}
	return uc.advance(ctx, poID, actorID,
		[]string{entity.PurchaseOrderStatusPending, entity.PurchaseOrderStatusConfirmed, entity.PurchaseOrderStatusShipped},
		entity.PurchaseOrderStatusCancelled, entity.PurchaseOrderEventCancelled, desc)
}

// advance aplica una transición sin efecto en inventario y agrega el evento a la línea de tiempo.
func (uc *PurchaseOrderUseCase) advance(
	ctx context.Context,
	poID, actorID string,
	from []string,
	to, event, description string,
) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		po, err := lockPurchaseOrder(ctx, repos, poID)
		if err != nil {
			return err
		}
		if !slices.Contains(from, po.Status) {
			return domain.Conflict("la orden %s está en %s y no puede pasar a %s", po.PONumber, po.Status, to)
		}
		now := uc.now()
		po.Status = to
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		ev := newEvent(po.ID, event, description, actorID, now)
		if err := repos.PurchaseOrders.AppendEvent(ctx, &ev); err != nil {
			return fmt.Errorf("append purchase order event: %w", err)
		}
		po.Timeline = append(po.Timeline, ev)
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	severity := entity.SeverityInfo
	if to == entity.PurchaseOrderStatusCancelled {
		severity = entity.SeverityWarning
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModulePurchasing,
		Action:      "po." + strings.ToLower(event),
		Severity:    severity,
		Description: fmt.Sprintf("Orden %s: %s", out.PONumber, description),
	})
	return out, nil
}

// DeletePurchaseOrder elimina una orden PENDING o CANCELLED.
func (uc *PurchaseOrderUseCase) DeletePurchaseOrder(ctx context.Context, poID, actorID string) error {
	var number string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		po, err := lockPurchaseOrder(ctx, repos, poID)
		if err != nil {
			return err
		}
		if po.Status != entity.PurchaseOrderStatusPending && po.Status != entity.PurchaseOrderStatusCancelled {
			return domain.Conflict("solo se eliminan órdenes PENDING o CANCELLED; %s está en %s", po.PONumber, po.Status)
		}
		number = po.PONumber
		if err := repos.PurchaseOrders.Delete(ctx, po.ID); err != nil {
			return fmt.Errorf("delete purchase order: %w", err)
		}
		return recomputeSupplier(ctx, repos, po.SupplierID)
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModulePurchasing,
		Action:      "po.deleted",
		Severity:    entity.SeverityWarning,
		Description: fmt.Sprintf("Orden %s eliminada", number),
	})
	return nil
}

// GetPurchaseOrder devuelve la orden con líneas y línea de tiempo.
func (uc *PurchaseOrderUseCase) GetPurchaseOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po == nil {
		return nil, domain.NotFound("orden de compra %s", id)
	}
	return po, nil
}

// ListPurchaseOrders lista órdenes por proveedor y/o estado.
func (uc *PurchaseOrderUseCase) ListPurchaseOrders(ctx context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	list, err := uc.poRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return list, nil
}

func lockPurchaseOrder(ctx context.Context, repos repository.TxRepositories, id string) (*entity.PurchaseOrder, error) {
	po, err := repos.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock purchase order: %w", err)
	}
	if po == nil {
		return nil, domain.NotFound("orden de compra %s", id)
	}
	return po, nil
}

func recomputeSupplier(ctx context.Context, repos repository.TxRepositories, supplierID string) error {
	if _, err := repos.Suppliers.RecomputeStats(ctx, supplierID); err != nil {
		return fmt.Errorf("recompute supplier stats: %w", err)
	}
	return nil
}

func newEvent(poID, status, description, userID string, at time.Time) entity.PurchaseOrderEvent {
	return entity.PurchaseOrderEvent{
		ID:              uuid.New().String(),
		PurchaseOrderID: poID,
		Status:          status,
		Description:     description,
		UserID:          userID,
		CreatedAt:       at,
	}
}

func newPONumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}
