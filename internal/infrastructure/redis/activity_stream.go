package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

var _ audit.Sink = (*ActivityStream)(nil)

// ActivityStream publica cada entrada de actividad en un stream de Redis (XADD),
// recortado aproximadamente a maxLen entradas.
type ActivityStream struct {
	client *goredis.Client
	stream string
	maxLen int64
}

// NewActivityStream abre el cliente. No verifica la conexión; usar Ping.
func NewActivityStream(addr, password string, db int, stream string, maxLen int64) *ActivityStream {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ActivityStream{client: client, stream: stream, maxLen: maxLen}
}

func (s *ActivityStream) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ActivityStream) Close() error {
	return s.client.Close()
}

// Write implementa audit.Sink.
func (s *ActivityStream) Write(ctx context.Context, entry *entity.ActivityLog) error {
	args := &goredis.XAddArgs{
		Stream: s.stream,
		Values: streamValues(entry),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func streamValues(e *entity.ActivityLog) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"user_id":     e.UserID,
		"module":      e.Module,
		"action":      e.Action,
		"severity":    e.Severity,
		"description": e.Description,
		"created_at":  e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
