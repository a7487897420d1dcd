package port

import (
	"context"

	"patentdesk/internal/domain"
)

// DraftStore keeps the in-progress wizard state of each session. Writes are
// last-write-wins.
type DraftStore interface {
	// Get returns the stored draft, or an empty draft for the session if none exists.
	Get(ctx context.Context, sessionID string) (*domain.Draft, error)
	Save(ctx context.Context, draft *domain.Draft) error
	// SetApplicationNo records the number on the draft and notifies watchers.
	SetApplicationNo(ctx context.Context, sessionID, applicationNo string) error
	// WatchApplicationNo delivers the next application number published for
	// the session. The channel is closed after one delivery or when ctx is done.
	WatchApplicationNo(ctx context.Context, sessionID string) (<-chan string, error)
	Clear(ctx context.Context, sessionID string) error
}
