package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
)

// MockFileMetaRepo is a mock implementation of port.FileMetaRepository.
type MockFileMetaRepo struct {
	mock.Mock
}

func (m *MockFileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MockFileMetaRepo) GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) GetFailedByCorrelation(ctx context.Context, ownerID uuid.UUID, correlationID string) (*domain.FileMeta, error) {
	args := m.Called(ctx, ownerID, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) ([]domain.FileMeta, error) {
	args := m.Called(ctx, ownerID, applicationNo, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) ListByApplication(ctx context.Context, applicationNo string) ([]domain.FileMeta, error) {
	args := m.Called(ctx, applicationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) ListStale(ctx context.Context, status domain.FileStatus, olderThan time.Time) ([]domain.FileMeta, error) {
	args := m.Called(ctx, status, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) AttachToApplication(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory, fileIDs []uuid.UUID) error {
	args := m.Called(ctx, ownerID, applicationNo, category, fileIDs)
	return args.Error(0)
}

func (m *MockFileMetaRepo) UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error {
	args := m.Called(ctx, fileID, status)
	return args.Error(0)
}

func (m *MockFileMetaRepo) Delete(ctx context.Context, fileID uuid.UUID) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}
