package memory

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

type movementRepo struct {
	view view
}

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	st, done := r.view()
	defer done()
	if _, ok := st.products[m.ProductID]; !ok {
		return domain.NotFound("producto %s", m.ProductID)
	}
	st.movements = append(st.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	st, done := r.view()
	defer done()
	for _, m := range st.movements {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, nil
}

// ListByProduct devuelve los movimientos más recientes primero.
func (r *movementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.InventoryMovement, 0)
	for i := len(st.movements) - 1; i >= 0; i-- {
		m := st.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

// ListBySource devuelve los movimientos en orden de escritura.
func (r *movementRepo) ListBySource(_ context.Context, sourceType, sourceID string) ([]*entity.InventoryMovement, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.InventoryMovement, 0)
	for _, m := range st.movements {
		if m.SourceType == sourceType && m.SourceID == sourceID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *movementRepo) SumByProduct(_ context.Context, productID string) (int, error) {
	st, done := r.view()
	defer done()
	sum := 0
	for _, m := range st.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}
