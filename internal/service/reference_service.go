package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"patentdesk/internal/domain"
	"patentdesk/internal/metrics"
	"patentdesk/internal/port"
)

const referenceLoadTimeout = 30 * time.Second

// ReferenceService serves lookup lists. Each list is loaded from the
// repository once and then served from memory; concurrent first callers share
// a single load, and failed loads are not cached.
type ReferenceService interface {
	List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error)
	ListStates(ctx context.Context, countryCode string) ([]domain.ReferenceItem, error)
	Invalidate(kind domain.ReferenceKind)
}

type referenceService struct {
	repo  port.ReferenceRepository
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]domain.ReferenceItem
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(repo port.ReferenceRepository) ReferenceService {
	return &referenceService{
		repo:  repo,
		cache: make(map[string][]domain.ReferenceItem),
	}
}

func (s *referenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	if !domain.ValidReferenceKinds[kind] {
		return nil, domain.ErrInvalidReferenceKind
	}
	return s.load(ctx, string(kind), func(ctx context.Context) ([]domain.ReferenceItem, error) {
		return s.repo.List(ctx, kind)
	})
}

func (s *referenceService) ListStates(ctx context.Context, countryCode string) ([]domain.ReferenceItem, error) {
	country := strings.ToUpper(strings.TrimSpace(countryCode))
	if country == "" {
		return nil, domain.ErrNotFound
	}
	key := string(domain.RefState) + ":" + country
	return s.load(ctx, key, func(ctx context.Context) ([]domain.ReferenceItem, error) {
		return s.repo.ListByParent(ctx, domain.RefState, country)
	})
}

// Invalidate drops the cached list so the next call reloads it. States are
// cached per country and are all dropped with RefState.
func (s *referenceService) Invalidate(kind domain.ReferenceKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := string(kind) + ":"
	for key := range s.cache {
		if key == string(kind) || strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
		}
	}
}

func (s *referenceService) load(
	ctx context.Context,
	key string,
	fetch func(context.Context) ([]domain.ReferenceItem, error),
) ([]domain.ReferenceItem, error) {
	s.mu.RLock()
	items, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return items, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A caller that lost the race may arrive after the winner cached.
		s.mu.RLock()
		cached, ok := s.cache[key]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		metrics.RecordReferenceFetch(key)
		// Shared by every waiting caller, so one caller's cancellation must not fail the rest.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), referenceLoadTimeout)
		defer cancel()
		loaded, err := fetch(loadCtx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			loaded = []domain.ReferenceItem{}
		}

		s.mu.Lock()
		s.cache[key] = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		zap.L().Warn("reference list load failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("loading reference list %s: %w", key, err)
	}
	return v.([]domain.ReferenceItem), nil
}
