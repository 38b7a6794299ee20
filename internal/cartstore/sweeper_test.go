package cartstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/krmotors/internal/logger"
)

type failingExpirer struct{}

func (failingExpirer) DeleteExpired(context.Context, string, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func TestSweeper_MemoryStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	mem.now = func() time.Time { return start }
	require.NoError(t, mem.Save(ctx, VisitorKey("old"), []byte(`[]`)))
	require.NoError(t, mem.Save(ctx, TokenKey, []byte(`{}`)))

	mem.now = func() time.Time { return start.Add(2 * time.Hour) }
	require.NoError(t, mem.Save(ctx, VisitorKey("fresh"), []byte(`[]`)))

	s := NewSweeper(mem, time.Hour, time.Minute, logger.Discard())
	s.now = func() time.Time { return start.Add(150 * time.Minute) }

	assert.Equal(t, int64(1), s.Sweep(ctx))

	_, err := mem.Load(ctx, VisitorKey("old"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = mem.Load(ctx, VisitorKey("fresh"))
	assert.NoError(t, err)
	_, err = mem.Load(ctx, TokenKey)
	assert.NoError(t, err, "only visitor carts are swept")
}

func TestSweeper_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	require.NoError(t, s.Save(ctx, VisitorKey("a"), []byte(`[]`)))
	require.NoError(t, s.Save(ctx, CartKey, []byte(`[]`)))

	n, err := s.DeleteExpired(ctx, CartKey+":", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteExpired(ctx, CartKey+":", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, CartKey)
	assert.NoError(t, err)
}

func TestSweeper_ErrorIsLogged(t *testing.T) {
	s := NewSweeper(failingExpirer{}, time.Hour, time.Minute, logger.Discard())
	assert.Zero(t, s.Sweep(context.Background()))
}

func TestSweeper_RunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(NewMemoryStore(), time.Hour, time.Millisecond, logger.Discard()).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
