// Package memory is a process-local DraftStore for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

type store struct {
	mu       sync.Mutex
	drafts   map[string][]byte
	watchers map[string][]chan string
}

// NewDraftStore creates an in-memory DraftStore. Drafts do not expire.
func NewDraftStore() port.DraftStore {
	return &store{
		drafts:   make(map[string][]byte),
		watchers: make(map[string][]chan string),
	}
}

func (s *store) Get(_ context.Context, sessionID string) (*domain.Draft, error) {
	s.mu.Lock()
	data, ok := s.drafts[sessionID]
	s.mu.Unlock()
	if !ok {
		return &domain.Draft{SessionID: sessionID, Step: 1, Form: domain.FormData{}}, nil
	}

	// Drafts are stored encoded so callers never share maps.
	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	if draft.Form == nil {
		draft.Form = domain.FormData{}
	}
	return &draft, nil
}

func (s *store) Save(_ context.Context, draft *domain.Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[draft.SessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *store) SetApplicationNo(ctx context.Context, sessionID, applicationNo string) error {
	draft, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	draft.ApplicationNo = applicationNo
	if err := s.Save(ctx, draft); err != nil {
		return err
	}

	s.mu.Lock()
	watchers := s.watchers[sessionID]
	delete(s.watchers, sessionID)
	s.mu.Unlock()

	for _, ch := range watchers {
		// Buffered with capacity one and used once.
		ch <- applicationNo
	}
	return nil
}

func (s *store) WatchApplicationNo(ctx context.Context, sessionID string) (<-chan string, error) {
	in := make(chan string, 1)
	s.mu.Lock()
	s.watchers[sessionID] = append(s.watchers[sessionID], in)
	s.mu.Unlock()

	out := make(chan string, 1)
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
			s.unwatch(sessionID, in)
		case appNo := <-in:
			out <- appNo
		}
	}()
	return out, nil
}

func (s *store) unwatch(sessionID string, target chan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	watchers := s.watchers[sessionID]
	for i, ch := range watchers {
		if ch == target {
			s.watchers[sessionID] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(s.watchers[sessionID]) == 0 {
		delete(s.watchers, sessionID)
	}
}

func (s *store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.drafts, sessionID)
	s.mu.Unlock()
	return nil
}
