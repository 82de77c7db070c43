package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []entity.ActivityLog
	err     error
}

func (s *recordingSink) Write(_ context.Context, e *entity.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *e)
	return nil
}

func TestDispatcher_FillsDefaultsAndFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, a, b).Synchronous()

	d.Record(context.Background(), entity.ActivityLog{UserID: "u1", Module: audit.ModuleSales, Action: "sale.created"})

	require.Len(t, a.entries, 1)
	require.Len(t, b.entries, 1)
	assert.NotEmpty(t, a.entries[0].ID)
	assert.Equal(t, entity.SeverityInfo, a.entries[0].Severity)
	assert.False(t, a.entries[0].CreatedAt.IsZero())
	assert.Equal(t, a.entries[0].ID, b.entries[0].ID)
}

func TestDispatcher_SinkFailureIsSwallowed(t *testing.T) {
	failing := &recordingSink{err: errors.New("redis caído")}
	ok := &recordingSink{}
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, failing, ok).Synchronous()

	assert.NotPanics(t, func() {
		d.Record(context.Background(), entity.ActivityLog{Module: audit.ModuleInventory, Action: "movement.recorded"})
	})
	assert.Len(t, ok.entries, 1)
}

func TestDispatcher_SurvivesCancelledRequestContext(t *testing.T) {
	s := &recordingSink{}
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, s).Synchronous()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Record(ctx, entity.ActivityLog{Module: audit.ModulePurchasing, Action: "po.received"})

	assert.Len(t, s.entries, 1)
}

type slowSink struct {
	recordingSink
	delay time.Duration
}

func (s *slowSink) Write(ctx context.Context, e *entity.ActivityLog) error {
	time.Sleep(s.delay)
	return s.recordingSink.Write(ctx, e)
}

func TestDispatcher_DrainWaitsForPendingDeliveries(t *testing.T) {
	s := &slowSink{delay: 50 * time.Millisecond}
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, s)

	d.Record(context.Background(), entity.ActivityLog{Module: audit.ModuleSales, Action: "sale.created"})
	d.Record(context.Background(), entity.ActivityLog{Module: audit.ModuleSales, Action: "sale.completed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Drain(ctx))

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.entries, 2)
}

func TestDispatcher_DrainHonorsDeadline(t *testing.T) {
	s := &slowSink{delay: 300 * time.Millisecond}
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, s)
	d.Record(context.Background(), entity.ActivityLog{Module: audit.ModuleInventory, Action: "movement.recorded"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Drain(ctx), context.DeadlineExceeded)

	require.NoError(t, d.Drain(context.Background()))
}

func TestDispatcher_DrainWithoutPendingReturnsImmediately(t *testing.T) {
	d := audit.NewDispatcher(zerolog.Nop(), time.Second, &recordingSink{})
	assert.NoError(t, d.Drain(context.Background()))
}
