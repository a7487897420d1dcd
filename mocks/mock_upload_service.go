package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Constraints() map[domain.DocumentCategory]service.Constraint {
	args := m.Called()
	return args.Get(0).(map[domain.DocumentCategory]service.Constraint)
}

func (m *MockUploadService) Upload(ctx context.Context, batch service.UploadBatch) (*service.UploadResult, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockUploadService) Retry(ctx context.Context, batch service.UploadBatch) (*service.UploadResult, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockUploadService) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	args := m.Called(ctx, ownerID, fileID)
	return args.Error(0)
}

func (m *MockUploadService) Download(ctx context.Context, userID uuid.UUID, role domain.UserRole, fileID uuid.UUID) (*service.DownloadedFile, error) {
	args := m.Called(ctx, userID, role, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadedFile), args.Error(1)
}

func (m *MockUploadService) List(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) (*service.UploadResult, error) {
	args := m.Called(ctx, ownerID, applicationNo, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}
