package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type purchaseOrderRepo struct {
	view view
}

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	st, done := r.view()
	defer done()
	if _, ok := st.purchaseOrders[po.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range st.purchaseOrders {
		if existing.PONumber == po.PONumber {
			return domain.ErrDuplicate
		}
	}
	if _, ok := st.suppliers[po.SupplierID]; !ok {
		return domain.NotFound("proveedor %s", po.SupplierID)
	}
	st.purchaseOrders[po.ID] = clonePurchaseOrder(*po)
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	st, done := r.view()
	defer done()
	po, ok := st.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	out := clonePurchaseOrder(po)
	return &out, nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	st, done := r.view()
	defer done()
	cur, ok := st.purchaseOrders[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = po.Status
	cur.Notes = po.Notes
	cur.ReceivedDate = po.ReceivedDate
	cur.UpdatedAt = po.UpdatedAt
	st.purchaseOrders[po.ID] = cur
	return nil
}

func (r *purchaseOrderRepo) UpdateItemReceived(_ context.Context, itemID string, receivedQuantity int) error {
	st, done := r.view()
	defer done()
	for id, po := range st.purchaseOrders {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].ReceivedQuantity = receivedQuantity
				st.purchaseOrders[id] = po
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *purchaseOrderRepo) AppendEvent(_ context.Context, ev *entity.PurchaseOrderEvent) error {
	st, done := r.view()
	defer done()
	po, ok := st.purchaseOrders[ev.PurchaseOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	po.Timeline = append(po.Timeline, *ev)
	st.purchaseOrders[ev.PurchaseOrderID] = po
	return nil
}

func (r *purchaseOrderRepo) Delete(_ context.Context, id string) error {
	st, done := r.view()
	defer done()
	if _, ok := st.purchaseOrders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.purchaseOrders, id)
	return nil
}

func (r *purchaseOrderRepo) List(_ context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.PurchaseOrder, 0, len(st.purchaseOrders))
	for _, po := range st.purchaseOrders {
		if filter.SupplierID != "" && po.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Status != "" && po.Status != filter.Status {
			continue
		}
		cp := clonePurchaseOrder(po)
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.PurchaseOrder) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.PONumber, b.PONumber)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}
