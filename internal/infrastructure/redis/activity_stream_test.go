package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func sampleEntry() *entity.ActivityLog {
	return &entity.ActivityLog{
		ID:          uuid.NewString(),
		UserID:      "user-1",
		Module:      "sales",
		Action:      "sale.created",
		Severity:    entity.SeverityInfo,
		Description: "Venta INV-20260101-ABCDEF12 creada",
		CreatedAt:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStreamValues(t *testing.T) {
	v := streamValues(sampleEntry())

	assert.Equal(t, "sale.created", v["action"])
	assert.Equal(t, "sales", v["module"])
	assert.Equal(t, "2026-01-01T12:00:00Z", v["created_at"])
	assert.Len(t, v, 7)
}

func TestWrite_UnreachableServerReturnsError(t *testing.T) {
	s := NewActivityStream("127.0.0.1:1", "", 0, "test:activity", 100)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, s.Write(ctx, sampleEntry()))
}

func TestWrite_AppendsToStream(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	stream := "test:activity:" + uuid.NewString()
	s := NewActivityStream(addr, "", 0, stream, 100)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))
	defer s.client.Del(ctx, stream)

	require.NoError(t, s.Write(ctx, sampleEntry()))

	msgs, err := s.client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "sale.created", msgs[0].Values["action"])
}
