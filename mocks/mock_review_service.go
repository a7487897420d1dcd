package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Int(1), args.Error(2)
}

func (m *MockReviewService) Summary(ctx context.Context, applicationNo string) (*domain.ApplicationSummary, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationSummary), args.Error(1)
}

func (m *MockReviewService) Approve(ctx context.Context, adminID uuid.UUID, applicationNo string, input service.DecisionInput) (*domain.Application, error) {
	args := m.Called(ctx, adminID, applicationNo, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockReviewService) Reject(ctx context.Context, adminID uuid.UUID, applicationNo string, input service.DecisionInput) (*domain.Application, error) {
	args := m.Called(ctx, adminID, applicationNo, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockReviewService) RequestFeedback(ctx context.Context, adminID uuid.UUID, applicationNo string, input service.DecisionInput) (*domain.Feedback, error) {
	args := m.Called(ctx, adminID, applicationNo, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockReviewService) ListFeedback(ctx context.Context, applicationNo string) ([]domain.Feedback, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *MockReviewService) Export(ctx context.Context, status domain.ApplicationStatus, w io.Writer) error {
	args := m.Called(ctx, status, w)
	return args.Error(0)
}
