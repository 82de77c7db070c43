package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// ActivityUseCase consulta el registro de actividad.
type ActivityUseCase struct {
	repo repository.ActivityLogRepository
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityLogRepository) *ActivityUseCase {
	return &ActivityUseCase{repo: repo}
}

// List devuelve las entradas más recientes, opcionalmente filtradas por módulo.
func (uc *ActivityUseCase) List(ctx context.Context, module string, limit, offset int) ([]dto.ActivityLogResponse, error) {
	list, err := uc.repo.List(ctx, module, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	out := make([]dto.ActivityLogResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ActivityLogResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Module:      e.Module,
			Action:      e.Action,
			Severity:    e.Severity,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
