package memory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

type activityLogRepo struct {
	view view
}

func (r *activityLogRepo) Create(_ context.Context, e *entity.ActivityLog) error {
	st, done := r.view()
	defer done()
	st.activity = append(st.activity, *e)
	return nil
}

// List devuelve las entradas más recientes primero; module vacío no filtra.
func (r *activityLogRepo) List(_ context.Context, module string, limit, offset int) ([]*entity.ActivityLog, error) {
	st, done := r.view()
	defer done()
	out := make([]*entity.ActivityLog, 0, len(st.activity))
	for i := len(st.activity) - 1; i >= 0; i-- {
		e := st.activity[i]
		if module != "" && e.Module != module {
			continue
		}
		cp := e
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}
