package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

type customerRepo struct {
	view view
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	st, done := r.view()
	defer done()
	if _, ok := st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	st.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	st, done := r.view()
	defer done()
	c, ok := st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.Customer, 0, len(st.customers))
	for _, c := range st.customers {
		cp := c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Customer) int { return strings.Compare(a.Name, b.Name) })
	return paginate(out, limit, offset), nil
}

// RecomputeStats recalcula desde cero sobre las ventas no reembolsadas del cliente.
func (r *customerRepo) RecomputeStats(_ context.Context, id string) (*entity.Customer, error) {
	st, done := r.view()
	defer done()
	c, ok := st.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.TotalOrders = 0
	c.TotalSpent = decimal.Zero
	c.LastOrder = nil
	for _, s := range st.sales {
		if s.CustomerID != id || s.Status == entity.SaleStatusRefunded {
			continue
		}
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(s.Total)
		c.LastOrder = latest(c.LastOrder, s.CreatedAt)
	}
	st.customers[id] = c
	return &c, nil
}

type supplierRepo struct {
	view view
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	st, done := r.view()
	defer done()
	if _, ok := st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	st.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	st, done := r.view()
	defer done()
	s, ok := st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.Supplier, 0, len(st.suppliers))
	for _, s := range st.suppliers {
		cp := s
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Supplier) int { return strings.Compare(a.Name, b.Name) })
	return paginate(out, limit, offset), nil
}

// RecomputeStats recalcula desde cero sobre todas las órdenes del proveedor.
func (r *supplierRepo) RecomputeStats(_ context.Context, id string) (*entity.Supplier, error) {
	st, done := r.view()
	defer done()
	s, ok := st.suppliers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.TotalOrders = 0
	s.TotalValue = decimal.Zero
	s.LastOrder = nil
	for _, po := range st.purchaseOrders {
		if po.SupplierID != id {
			continue
		}
		s.TotalOrders++
		s.TotalValue = s.TotalValue.Add(po.Total)
		s.LastOrder = latest(s.LastOrder, po.CreatedAt)
	}
	st.suppliers[id] = s
	return &s, nil
}

func latest(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		return &t
	}
	return cur
}
