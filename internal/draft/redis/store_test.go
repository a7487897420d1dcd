package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	draftredis "patentdesk/internal/draft/redis"
	"patentdesk/internal/port"
)

// newTestStore connects to the Redis named by PATENTDESK_TEST_REDIS_ADDR and
// skips the test when it is unset.
func newTestStore(t *testing.T) (port.DraftStore, string) {
	t.Helper()
	addr := os.Getenv("PATENTDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PATENTDESK_TEST_REDIS_ADDR not set")
	}
	client, err := draftredis.NewClient(context.Background(), &config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := draftredis.NewDraftStore(client, time.Minute)
	session := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = store.Clear(context.Background(), session) })
	return store, session
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	store, session := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Draft{
		SessionID: session,
		Step:      3,
		Form:      domain.FormData{"title": "Self-heating mug"},
	}))

	draft, err := store.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 3, draft.Step)
	assert.Equal(t, "Self-heating mug", draft.Form.String("title"))
}

func TestRedisStore_WatchApplicationNo(t *testing.T) {
	store, session := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	watch, err := store.WatchApplicationNo(ctx, session)
	require.NoError(t, err)
	require.NoError(t, store.SetApplicationNo(context.Background(), session, "PA-2026-000100"))

	select {
	case n := <-watch:
		assert.Equal(t, "PA-2026-000100", n)
	case <-ctx.Done():
		t.Fatal("application number not delivered")
	}

	draft, err := store.Get(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "PA-2026-000100", draft.ApplicationNo)
}
