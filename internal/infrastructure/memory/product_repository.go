package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type productRepo struct {
	view view
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	st, done := r.view()
	defer done()
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range st.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st, done := r.view()
	defer done()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	st, done := r.view()
	defer done()
	for _, p := range st.products {
		if strings.EqualFold(p.SKU, sku) {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	st, done := r.view()
	defer done()
	cur, ok := st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Price = p.Price
	cur.Cost = p.Cost
	cur.MinStock = p.MinStock
	cur.MaxStock = p.MaxStock
	cur.Status = p.Status
	cur.UpdatedAt = p.UpdatedAt
	st.products[p.ID] = cur
	return nil
}

func (r *productRepo) IncrementStock(_ context.Context, id string, delta int, at time.Time) (*entity.Product, error) {
	st, done := r.view()
	defer done()
	cur, ok := st.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	inventory.ApplyStockDelta(&cur, delta, at)
	st.products[id] = cur
	return &cur, nil
}

func (r *productRepo) UpdateStatus(_ context.Context, id, status string) error {
	st, done := r.view()
	defer done()
	cur, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = status
	st.products[id] = cur
	return nil
}

func (r *productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	st, done := r.view()
	defer done()
	cur, ok := st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Cost = cost
	st.products[id] = cur
	return nil
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, p.Status) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Product) int { return strings.Compare(a.SKU, b.SKU) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *productRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	st, done := r.view()
	defer done()
	for _, s := range st.sales {
		for _, it := range s.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	for _, po := range st.purchaseOrders {
		for _, it := range po.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	for _, m := range st.movements {
		if m.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	st, done := r.view()
	defer done()
	if _, ok := st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.products, id)
	return nil
}

// paginate aplica offset/limit; limit <= 0 devuelve todo desde offset.
func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
