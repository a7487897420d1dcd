package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockReferenceService is a mock implementation of service.ReferenceService.
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceService) ListStates(ctx context.Context, countryCode string) ([]domain.ReferenceItem, error) {
	args := m.Called(ctx, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceService) Invalidate(kind domain.ReferenceKind) {
	m.Called(kind)
}
