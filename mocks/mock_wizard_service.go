package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// MockWizardService is a mock implementation of service.WizardService.
type MockWizardService struct {
	mock.Mock
}

func (m *MockWizardService) Restore(ctx context.Context, userID uuid.UUID) (*domain.Draft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockWizardService) Update(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*domain.Draft, error) {
	args := m.Called(ctx, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockWizardService) Next(ctx context.Context, userID uuid.UUID, step int, fields domain.FormData) (*service.StepResult, error) {
	args := m.Called(ctx, userID, step, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StepResult), args.Error(1)
}

func (m *MockWizardService) Prev(ctx context.Context, userID uuid.UUID, step int) (*service.Navigation, error) {
	args := m.Called(ctx, userID, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Navigation), args.Error(1)
}

func (m *MockWizardService) Submit(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*service.StepResult, error) {
	args := m.Called(ctx, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StepResult), args.Error(1)
}

func (m *MockWizardService) CheckLikelihood(ctx context.Context, userID uuid.UUID) (*service.LikelihoodResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LikelihoodResult), args.Error(1)
}

func (m *MockWizardService) Logout(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
