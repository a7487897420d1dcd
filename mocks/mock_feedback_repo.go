package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockFeedbackRepo is a mock implementation of port.FeedbackRepository.
type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *MockFeedbackRepo) ListByApplication(ctx context.Context, applicationNo string) ([]domain.Feedback, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}
