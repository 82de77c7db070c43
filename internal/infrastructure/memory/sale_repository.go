package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

type saleRepo struct {
	view view
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	st, done := r.view()
	defer done()
	if _, ok := st.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range st.sales {
		if existing.InvoiceID == s.InvoiceID {
			return domain.ErrDuplicate
		}
	}
	if s.CustomerID != "" {
		if _, ok := st.customers[s.CustomerID]; !ok {
			return domain.NotFound("cliente %s", s.CustomerID)
		}
	}
	st.sales[s.ID] = cloneSale(*s)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st, done := r.view()
	defer done()
	s, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	out := cloneSale(s)
	return &out, nil
}

// GetForUpdate equivale a GetByID: Run ya serializa las transacciones.
func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Update(_ context.Context, s *entity.Sale) error {
	st, done := r.view()
	defer done()
	cur, ok := st.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = s.Status
	cur.Notes = s.Notes
	cur.RefundReason = s.RefundReason
	cur.RefundAmount = s.RefundAmount
	cur.RefundedAt = s.RefundedAt
	cur.UpdatedAt = s.UpdatedAt
	st.sales[s.ID] = cur
	return nil
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	st, done := r.view()
	defer done()
	if _, ok := st.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.sales, id)
	return nil
}

// List ordena por fecha de creación descendente.
func (r *saleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.Sale, 0, len(st.sales))
	for _, s := range st.sales {
		if filter.CustomerID != "" && s.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		cp := cloneSale(s)
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Sale) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.InvoiceID, b.InvoiceID)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}
