package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// Prefijos de referencia de los movimientos compensatorios.
const (
	deletedSalePrefix = "DELETED_SALE_"
	refundPrefix      = "REFUND_"
)

// lockSale lee la venta bloqueando la fila; NotFound si no existe.
func lockSale(ctx context.Context, repos repository.TxRepositories, saleID string) (*entity.Sale, error) {
	s, err := repos.Sales.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("lock sale: %w", err)
	}
	if s == nil {
		return nil, domain.NotFound("venta %s", saleID)
	}
	return s, nil
}

// CompleteSale pasa una venta de PENDING a COMPLETED.
func (uc *SaleUseCase) CompleteSale(ctx context.Context, saleID, actorID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		s, err := lockSale(ctx, repos, saleID)
		if err != nil {
			return err
		}
		if s.Status != entity.SaleStatusPending {
			return domain.Conflict("la venta %s está en estado %s", s.InvoiceID, s.Status)
		}
		s.Status = entity.SaleStatusCompleted
		s.UpdatedAt = uc.now()
		if err := repos.Sales.Update(ctx, s); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModuleSales,
		Action:      "sale.completed",
		Description: fmt.Sprintf("Venta %s completada", sale.InvoiceID),
	})
	return sale, nil
}

// DeleteSale elimina una venta PENDING revirtiendo su efecto en inventario con movimientos RETURN.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, saleID, actorID string) error {
	var invoiceID string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		s, err := lockSale(ctx, repos, saleID)
		if err != nil {
			return err
		}
		if s.Status != entity.SaleStatusPending {
			return domain.Conflict("solo se pueden eliminar ventas PENDING; %s está en %s", s.InvoiceID, s.Status)
		}
		invoiceID = s.InvoiceID
		if _, err := uc.restock(ctx, repos, s, actorID, deletedSalePrefix+s.InvoiceID); err != nil {
			return err
		}
		if err := repos.Sales.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		return recomputeCustomer(ctx, repos, s.CustomerID)
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModuleSales,
		Action:      "sale.deleted",
		Severity:    entity.SeverityWarning,
		Description: fmt.Sprintf("Venta %s eliminada; inventario restituido", invoiceID),
	})
	return nil
}

// RefundInput parámetros del reembolso. RefundAmount nil reembolsa el total;
// RestoreInventory nil equivale a true.
type RefundInput struct {
	Reason           string
	RefundAmount     *decimal.Decimal
	RestoreInventory *bool
}

// RefundResult resultado del reembolso.
type RefundResult struct {
	Sale              *entity.Sale
	RefundAmount      decimal.Decimal
	InventoryRestored bool
	Movements         []*entity.InventoryMovement
}

// RefundSale marca la venta como REFUNDED, opcionalmente devuelve el stock con movimientos RETURN
// y recalcula los agregados del cliente. El monto no puede superar el total de la venta.
func (uc *SaleUseCase) RefundSale(ctx context.Context, saleID string, in RefundInput, actorID string) (*RefundResult, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.Invalid("el motivo del reembolso es obligatorio")
	}
	if in.RefundAmount != nil && !in.RefundAmount.IsPositive() {
		return nil, domain.Invalid("el monto del reembolso debe ser mayor que cero")
	}
	restore := in.RestoreInventory == nil || *in.RestoreInventory

	result := &RefundResult{InventoryRestored: restore}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		s, err := lockSale(ctx, repos, saleID)
		if err != nil {
			return err
		}
		if s.Status == entity.SaleStatusRefunded {
			return domain.Conflict("la venta %s ya fue reembolsada", s.InvoiceID)
		}
		amount := s.Total
		if in.RefundAmount != nil {
			amount = *in.RefundAmount
		}
		if amount.GreaterThan(s.Total) {
			return domain.Invalid("el reembolso %s supera el total de la venta %s", amount, s.Total)
		}

		now := uc.now()
		s.Status = entity.SaleStatusRefunded
		s.RefundReason = reason
		s.RefundAmount = amount
		s.RefundedAt = &now
		s.UpdatedAt = now
		if err := repos.Sales.Update(ctx, s); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if restore {
			movs, err := uc.restock(ctx, repos, s, actorID, refundPrefix+s.InvoiceID)
			if err != nil {
				return err
			}
			result.Movements = movs
		}
		result.Sale = s
		result.RefundAmount = amount
		return recomputeCustomer(ctx, repos, s.CustomerID)
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModuleSales,
		Action:      "sale.refunded",
		Severity:    entity.SeverityWarning,
		Description: fmt.Sprintf("Venta %s reembolsada por %s: %s", result.Sale.InvoiceID, result.RefundAmount.StringFixed(2), reason),
	})
	return result, nil
}

// restock devuelve al stock cada línea de la venta con un movimiento RETURN.
func (uc *SaleUseCase) restock(
	ctx context.Context,
	repos repository.TxRepositories,
	s *entity.Sale,
	actorID, reference string,
) ([]*entity.InventoryMovement, error) {
	movs := make([]*entity.InventoryMovement, 0, len(s.Items))
	for _, i := range inventory.LockOrder(len(s.Items), func(i int) string { return s.Items[i].ProductID }) {
		it := s.Items[i]
		mov, _, err := uc.ledger.ApplyInTx(ctx, repos, inventory.StockChange{
			ProductID:  it.ProductID,
			UserID:     actorID,
			Type:       entity.MovementTypeReturn,
			Quantity:   it.Quantity,
			Reference:  reference,
			SourceType: entity.MovementSourceSale,
			SourceID:   s.ID,
		})
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}
