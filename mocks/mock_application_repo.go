package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockApplicationRepo is a mock implementation of port.ApplicationRepository.
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepo) GetByNo(ctx context.Context, applicationNo string) (*domain.Application, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStage(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepo) UpdateLikelihood(ctx context.Context, applicationNo string, rate float64, checkedAt time.Time) error {
	args := m.Called(ctx, applicationNo, rate, checkedAt)
	return args.Error(0)
}

func (m *MockApplicationRepo) RecordPayment(ctx context.Context, applicationNo string, amount int64, reference string, paidAt time.Time) error {
	args := m.Called(ctx, applicationNo, amount, reference, paidAt)
	return args.Error(0)
}

func (m *MockApplicationRepo) UpdateDecision(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error) {
	args := m.Called(ctx, applicantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Int(1), args.Error(2)
}

func (m *MockApplicationRepo) ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Int(1), args.Error(2)
}

func (m *MockApplicationRepo) ListApprovedByClassification(ctx context.Context, classificationID string, limit int) ([]domain.Application, error) {
	args := m.Called(ctx, classificationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
