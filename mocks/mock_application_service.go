package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// MockApplicationService is a mock implementation of service.ApplicationService.
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, applicantID uuid.UUID, form domain.FormData) (*domain.Application, error) {
	args := m.Called(ctx, applicantID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) UpdateStage(ctx context.Context, applicantID uuid.UUID, applicationNo string, stage int, form domain.FormData) (*domain.Application, error) {
	args := m.Called(ctx, applicantID, applicationNo, stage, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) RecordLikelihood(ctx context.Context, applicantID uuid.UUID, applicationNo string, rate float64) error {
	args := m.Called(ctx, applicantID, applicationNo, rate)
	return args.Error(0)
}

func (m *MockApplicationService) Get(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error) {
	args := m.Called(ctx, applicantID, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) ListMine(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error) {
	args := m.Called(ctx, applicantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Int(1), args.Error(2)
}

func (m *MockApplicationService) ListFeedback(ctx context.Context, applicantID uuid.UUID, applicationNo string) ([]domain.Feedback, error) {
	args := m.Called(ctx, applicantID, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *MockApplicationService) Cancel(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error) {
	args := m.Called(ctx, applicantID, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) PatentDetail(ctx context.Context, applicationNo string) (*domain.Application, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Similar(ctx context.Context, classificationID string) ([]domain.Application, error) {
	args := m.Called(ctx, classificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationService) RecordPaymentSuccess(ctx context.Context, applicantID uuid.UUID, applicationNo string, input service.PaymentSuccessInput) (*domain.Application, error) {
	args := m.Called(ctx, applicantID, applicationNo, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
