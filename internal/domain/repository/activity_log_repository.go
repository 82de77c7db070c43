package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ActivityLogRepository persiste el registro de actividad.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *entity.ActivityLog) error
	List(ctx context.Context, module string, limit, offset int) ([]*entity.ActivityLog, error)
}
