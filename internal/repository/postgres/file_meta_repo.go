package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

type fileMetaRepo struct {
	db *sqlx.DB
}

// NewFileMetaRepo creates a new PostgreSQL-backed FileMetaRepository.
func NewFileMetaRepo(db *sqlx.DB) port.FileMetaRepository {
	return &fileMetaRepo{db: db}
}

func (r *fileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	now := time.Now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	query := `INSERT INTO file_metadata
		(id, owner_id, application_no, category, correlation_id, original_name, file_size,
		 content_type, s3_bucket, s3_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		meta.ID, meta.OwnerID, meta.ApplicationNo, meta.Category, meta.CorrelationID,
		meta.OriginalName, meta.FileSize, meta.ContentType, meta.S3Bucket, meta.S3Key,
		meta.Status, meta.CreatedAt, meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Create: %w", err)
	}
	return nil
}

func (r *fileMetaRepo) GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta,
		"SELECT * FROM file_metadata WHERE id = $1 AND status != $2", fileID, domain.FileStatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fileMetaRepo.GetByID: %w", err)
	}
	return &meta, nil
}

func (r *fileMetaRepo) GetFailedByCorrelation(ctx context.Context, ownerID uuid.UUID, correlationID string) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta,
		`SELECT * FROM file_metadata
		 WHERE owner_id = $1 AND correlation_id = $2 AND status = $3
		 ORDER BY created_at DESC LIMIT 1`,
		ownerID, correlationID, domain.FileStatusFailed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFailedUploadNotFound
		}
		return nil, fmt.Errorf("fileMetaRepo.GetFailedByCorrelation: %w", err)
	}
	return &meta, nil
}

// ListByOwner returns the owner's live files in a category that are either
// unattached or attached to applicationNo.
func (r *fileMetaRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) ([]domain.FileMeta, error) {
	var files []domain.FileMeta
	err := r.db.SelectContext(ctx, &files,
		`SELECT * FROM file_metadata
		 WHERE owner_id = $1 AND category = $2 AND status IN ($3, $4)
		   AND (application_no IS NULL OR application_no = $5)
		 ORDER BY created_at`,
		ownerID, category, domain.FileStatusUploaded, domain.FileStatusFailed, applicationNo)
	if err != nil {
		return nil, fmt.Errorf("fileMetaRepo.ListByOwner: %w", err)
	}
	return files, nil
}

func (r *fileMetaRepo) ListByApplication(ctx context.Context, applicationNo string) ([]domain.FileMeta, error) {
	var files []domain.FileMeta
	err := r.db.SelectContext(ctx, &files,
		`SELECT * FROM file_metadata
		 WHERE application_no = $1 AND status = $2
		 ORDER BY category, created_at`,
		applicationNo, domain.FileStatusUploaded)
	if err != nil {
		return nil, fmt.Errorf("fileMetaRepo.ListByApplication: %w", err)
	}
	return files, nil
}

func (r *fileMetaRepo) ListStale(ctx context.Context, status domain.FileStatus, olderThan time.Time) ([]domain.FileMeta, error) {
	var files []domain.FileMeta
	err := r.db.SelectContext(ctx, &files,
		"SELECT * FROM file_metadata WHERE status = $1 AND updated_at < $2",
		status, olderThan)
	if err != nil {
		return nil, fmt.Errorf("fileMetaRepo.ListStale: %w", err)
	}
	return files, nil
}

// AttachToApplication binds the owner's uploaded files of one category to
// applicationNo. Files already bound to another application are not moved.
func (r *fileMetaRepo) AttachToApplication(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory, fileIDs []uuid.UUID) error {
	if len(fileIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`UPDATE file_metadata SET application_no = ?, updated_at = ?
		 WHERE owner_id = ? AND category = ? AND status = ?
		   AND (application_no IS NULL OR application_no = ?) AND id IN (?)`,
		applicationNo, time.Now().UTC(), ownerID, category, domain.FileStatusUploaded, applicationNo, fileIDs)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.AttachToApplication build: %w", err)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.AttachToApplication: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(fileIDs) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *fileMetaRepo) UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE file_metadata SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), fileID)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *fileMetaRepo) Delete(ctx context.Context, fileID uuid.UUID) error {
	return r.UpdateStatus(ctx, fileID, domain.FileStatusDeleted)
}
