package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"patentdesk/internal/domain"
	"patentdesk/internal/draft/memory"
)

func TestStore_GetMissingReturnsFreshDraft(t *testing.T) {
	s := memory.NewDraftStore()

	draft, err := s.Get(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, "session-1", draft.SessionID)
	assert.Equal(t, 1, draft.Step)
	assert.NotNil(t, draft.Form)
}

func TestStore_SaveIsolatesCallers(t *testing.T) {
	s := memory.NewDraftStore()
	ctx := context.Background()
	draft := &domain.Draft{SessionID: "s", Step: 2, Form: domain.FormData{"title": "Widget"}}
	require.NoError(t, s.Save(ctx, draft))

	draft.Form["title"] = "changed after save"
	got, err := s.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Form.String("title"))
	assert.False(t, got.UpdatedAt.IsZero())

	got.Form["title"] = "changed after get"
	again, err := s.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "Widget", again.Form.String("title"))
}

func TestStore_WatchReceivesApplicationNo(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := memory.NewDraftStore()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	watch, err := s.WatchApplicationNo(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, s.SetApplicationNo(context.Background(), "s", "PA-2026-000001"))

	select {
	case n := <-watch:
		assert.Equal(t, "PA-2026-000001", n)
	case <-time.After(time.Second):
		t.Fatal("application number not delivered")
	}

	draft, err := s.Get(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "PA-2026-000001", draft.ApplicationNo)
}

func TestStore_WatchClosesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := memory.NewDraftStore()
	ctx, cancel := context.WithCancel(context.Background())

	watch, err := s.WatchApplicationNo(ctx, "s")
	require.NoError(t, err)
	cancel()

	_, ok := <-watch
	assert.False(t, ok)

	// No watcher left to block the publisher.
	require.NoError(t, s.SetApplicationNo(context.Background(), "s", "PA-2026-000002"))
}

func TestStore_Clear(t *testing.T) {
	s := memory.NewDraftStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &domain.Draft{SessionID: "s", Step: 5, ApplicationNo: "PA-2026-000003"}))

	require.NoError(t, s.Clear(ctx, "s"))

	draft, err := s.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Step)
	assert.Empty(t, draft.ApplicationNo)
}
