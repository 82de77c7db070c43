package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-ledger/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// ReceivedItem sobrescribe la cantidad recibida de una línea, identificada por ItemID o ProductID.
// Quantity nil conserva la cantidad pedida. Por ProductID se toma la primera línea de ese producto
// que aún no tenga override.
type ReceivedItem struct {
	ItemID    string
	ProductID string
	Quantity  *int
}

// resolveReceived devuelve la cantidad a recibir por línea: la pedida salvo override.
func resolveReceived(po *entity.PurchaseOrder, overrides []ReceivedItem) (map[string]int, error) {
	qty := make(map[string]int, len(po.Items))
	for _, it := range po.Items {
		qty[it.ID] = it.Quantity
	}
	seen := make(map[string]bool, len(overrides))
	for _, ov := range overrides {
		if ov.Quantity != nil && *ov.Quantity < 0 {
			return nil, domain.Invalid("la cantidad recibida no puede ser negativa")
		}
		itemID, err := matchItem(po, ov, seen)
		if err != nil {
			return nil, err
		}
		seen[itemID] = true
		if ov.Quantity != nil {
			qty[itemID] = *ov.Quantity
		}
	}
	return qty, nil
}

func matchItem(po *entity.PurchaseOrder, ov ReceivedItem, seen map[string]bool) (string, error) {
	if ov.ItemID != "" {
		for _, it := range po.Items {
			if it.ID != ov.ItemID {
				continue
			}
			if seen[it.ID] {
				return "", domain.Invalid("el ítem %s está repetido", it.ID)
			}
			return it.ID, nil
		}
		return "", domain.Invalid("el ítem %s no pertenece a la orden %s", ov.ItemID, po.PONumber)
	}
	if ov.ProductID == "" {
		return "", domain.Invalid("cada ítem recibido necesita item_id o product_id")
	}
	found := false
	for _, it := range po.Items {
		if it.ProductID != ov.ProductID {
			continue
		}
		found = true
		if !seen[it.ID] {
			return it.ID, nil
		}
	}
	if found {
		return "", domain.Invalid("el producto %s tiene más overrides que líneas en la orden %s", ov.ProductID, po.PONumber)
	}
	return "", domain.Invalid("el producto %s no pertenece a la orden %s", ov.ProductID, po.PONumber)
}

// ReceivePurchaseOrder recibe una orden CONFIRMED o SHIPPED: por cada línea suma stock con un
// movimiento PURCHASE (referencia = número de orden), actualiza el costo promedio ponderado,
// marca la orden RECEIVED y recalcula los agregados del proveedor. Todo en una transacción.
func (uc *PurchaseOrderUseCase) ReceivePurchaseOrder(ctx context.Context, poID string, received []ReceivedItem, actorID string) (*entity.PurchaseOrder, error) {
	var (
		out   *entity.PurchaseOrder
		units int
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		po, err := lockPurchaseOrder(ctx, repos, poID)
		if err != nil {
			return err
		}
		if po.Status != entity.PurchaseOrderStatusConfirmed && po.Status != entity.PurchaseOrderStatusShipped {
			return domain.Conflict("la orden %s está en %s; solo se reciben órdenes CONFIRMED o SHIPPED", po.PONumber, po.Status)
		}
		qty, err := resolveReceived(po, received)
		if err != nil {
			return err
		}

		for _, i := range inventory.LockOrder(len(po.Items), func(i int) string { return po.Items[i].ProductID }) {
			it := po.Items[i]
			q := qty[it.ID]
			if q > 0 {
				if err := uc.receiveLine(ctx, repos, po, it, q, actorID); err != nil {
					return err
				}
				units += q
			}
			if err := repos.PurchaseOrders.UpdateItemReceived(ctx, it.ID, q); err != nil {
				return fmt.Errorf("update received quantity: %w", err)
			}
			po.Items[i].ReceivedQuantity = q
		}

		now := uc.now()
		po.Status = entity.PurchaseOrderStatusReceived
		po.ReceivedDate = &now
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		ev := newEvent(po.ID, entity.PurchaseOrderEventReceived, fmt.Sprintf("Recibidas %d unidades", units), actorID, now)
		if err := repos.PurchaseOrders.AppendEvent(ctx, &ev); err != nil {
			return fmt.Errorf("append purchase order event: %w", err)
		}
		po.Timeline = append(po.Timeline, ev)
		out = po
		return recomputeSupplier(ctx, repos, po.SupplierID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      actorID,
		Module:      audit.ModulePurchasing,
		Action:      "po.received",
		Description: fmt.Sprintf("Orden %s recibida: %d unidades", out.PONumber, units),
	})
	return out, nil
}

// receiveLine bloquea el producto, recalcula el costo promedio con el stock previo y registra la entrada.
func (uc *PurchaseOrderUseCase) receiveLine(
	ctx context.Context,
	repos repository.TxRepositories,
	po *entity.PurchaseOrder,
	it entity.PurchaseOrderItem,
	qty int,
	actorID string,
) error {
	p, err := repos.Products.GetForUpdate(ctx, it.ProductID)
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}
	if p == nil {
		return domain.NotFound("producto %s", it.ProductID)
	}
	newCost := domaininv.CostCalculator(p.Stock, p.Cost, qty, it.UnitCost)

	if _, _, err := uc.ledger.ApplyInTx(ctx, repos, inventory.StockChange{
		ProductID:  it.ProductID,
		UserID:     actorID,
		Type:       entity.MovementTypePurchase,
		Quantity:   qty,
		Reference:  po.PONumber,
		SourceType: entity.MovementSourcePurchaseOrder,
		SourceID:   po.ID,
	}); err != nil {
		return err
	}
	if !newCost.Equal(p.Cost) {
		if err := repos.Products.UpdateCost(ctx, p.ID, newCost); err != nil {
			return fmt.Errorf("update product cost: %w", err)
		}
	}
	return nil
}
