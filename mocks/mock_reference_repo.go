package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockReferenceRepo is a mock implementation of port.ReferenceRepository.
type MockReferenceRepo struct {
	mock.Mock
}

func (m *MockReferenceRepo) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepo) ListByParent(ctx context.Context, kind domain.ReferenceKind, parentCode string) ([]domain.ReferenceItem, error) {
	args := m.Called(ctx, kind, parentCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepo) Upsert(ctx context.Context, items []domain.ReferenceItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
