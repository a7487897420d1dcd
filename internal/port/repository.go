package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"patentdesk/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ApplicationRepository defines the contract for patent application persistence.
type ApplicationRepository interface {
	// Create assigns the application number and timestamps.
	Create(ctx context.Context, app *domain.Application) error
	GetByNo(ctx context.Context, applicationNo string) (*domain.Application, error)
	UpdateStage(ctx context.Context, app *domain.Application) error
	UpdateLikelihood(ctx context.Context, applicationNo string, rate float64, checkedAt time.Time) error
	RecordPayment(ctx context.Context, applicationNo string, amount int64, reference string, paidAt time.Time) error
	UpdateDecision(ctx context.Context, app *domain.Application) error
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error)
	ListApprovedByClassification(ctx context.Context, classificationID string, limit int) ([]domain.Application, error)
}

// FileMetaRepository defines the contract for uploaded document metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	GetFailedByCorrelation(ctx context.Context, ownerID uuid.UUID, correlationID string) (*domain.FileMeta, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) ([]domain.FileMeta, error)
	ListByApplication(ctx context.Context, applicationNo string) ([]domain.FileMeta, error)
	ListStale(ctx context.Context, status domain.FileStatus, olderThan time.Time) ([]domain.FileMeta, error)
	AttachToApplication(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory, fileIDs []uuid.UUID) error
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, fileID uuid.UUID) error
}

// ReferenceRepository reads and seeds lookup lists.
type ReferenceRepository interface {
	List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceItem, error)
	ListByParent(ctx context.Context, kind domain.ReferenceKind, parentCode string) ([]domain.ReferenceItem, error)
	Upsert(ctx context.Context, items []domain.ReferenceItem) error
}

// FeedbackRepository stores reviewer feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	ListByApplication(ctx context.Context, applicationNo string) ([]domain.Feedback, error)
}
