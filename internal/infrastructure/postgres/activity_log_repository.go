package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo persiste el registro de actividad en activity_logs.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Create(ctx context.Context, e *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, module, action, severity, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, e.ID, nullable(e.UserID), e.Module, e.Action, e.Severity, e.Description, e.CreatedAt); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepo) List(ctx context.Context, module string, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, user_id, module, action, severity, description, created_at
		FROM activity_logs WHERE ($1 = '' OR module = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, module, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var e entity.ActivityLog
		var userID *string
		if err := rows.Scan(&e.ID, &userID, &e.Module, &e.Action, &e.Severity, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		e.UserID = deref(userID)
		list = append(list, &e)
	}
	return list, rows.Err()
}
