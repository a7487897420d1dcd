package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockDraftStore is a mock implementation of port.DraftStore.
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Get(ctx context.Context, sessionID string) (*domain.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftStore) Save(ctx context.Context, draft *domain.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftStore) SetApplicationNo(ctx context.Context, sessionID, applicationNo string) error {
	args := m.Called(ctx, sessionID, applicationNo)
	return args.Error(0)
}

func (m *MockDraftStore) WatchApplicationNo(ctx context.Context, sessionID string) (<-chan string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan string), args.Error(1)
}

func (m *MockDraftStore) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
