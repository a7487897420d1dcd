package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/metrics"
	"patentdesk/internal/port"
)

// Error codes attached to rejected files.
const (
	UploadErrFileType  = "file_type"
	UploadErrFileSize  = "file_size"
	UploadErrDuplicate = "duplicate"
	UploadErrMaxFiles  = "max_files"
	UploadErrUpload    = "upload_failed"
	UploadErrNotFailed = "not_failed"
)

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Constraint bounds the files accepted for one document category.
type Constraint struct {
	MaxFiles int      `json:"max_files"`
	MaxSize  int64    `json:"max_size"`
	Accept   []string `json:"accept"`
}

func (c Constraint) accepts(contentType string) bool {
	for _, a := range c.Accept {
		if a == contentType {
			return true
		}
	}
	return false
}

// ConstraintsFromConfig builds the per-category limits.
func ConstraintsFromConfig(cfg config.UploadConfig) map[domain.DocumentCategory]Constraint {
	maxSize := cfg.MaxFileSizeMB * 1024 * 1024
	pdf := []string{"application/pdf"}
	return map[domain.DocumentCategory]Constraint{
		domain.CategoryClaims:     {MaxFiles: cfg.MaxClaims, MaxSize: maxSize, Accept: pdf},
		domain.CategoryAbstract:   {MaxFiles: cfg.MaxAbstract, MaxSize: maxSize, Accept: pdf},
		domain.CategoryDrawings:   {MaxFiles: cfg.MaxDrawings, MaxSize: maxSize, Accept: []string{"application/pdf", "image/png", "image/jpeg"}},
		domain.CategorySupporting: {MaxFiles: cfg.MaxSupporting, MaxSize: maxSize, Accept: pdf},
	}
}

// IncomingFile is one file of an upload request. Open may be called more
// than once.
type IncomingFile struct {
	CorrelationID string
	Name          string
	Size          int64
	Open          func() (io.ReadCloser, error)
}

// UploadBatch is the DTO for upload and retry requests.
type UploadBatch struct {
	OwnerID       uuid.UUID
	ApplicationNo string
	Category      domain.DocumentCategory
	AutoUpload    bool
	Files         []IncomingFile
}

// FileError reports a file that was rejected or failed to upload.
type FileError struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// StagedFile is an accepted file held by the client until it uploads it.
type StagedFile struct {
	CorrelationID string `json:"correlation_id"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	ContentType   string `json:"type"`
}

// UploadResult describes a category after an upload request.
type UploadResult struct {
	Category domain.DocumentCategory `json:"category"`
	Uploaded []domain.FileMeta       `json:"uploaded"`
	Failed   []domain.FileMeta       `json:"failed"`
	Staged   []StagedFile            `json:"staged,omitempty"`
	Errors   []FileError             `json:"errors"`
}

// DownloadedFile is an open object stream with its metadata.
type DownloadedFile struct {
	Meta *domain.FileMeta
	Body io.ReadCloser
	Size int64
}

// UploadService proxies application documents to object storage.
type UploadService interface {
	Constraints() map[domain.DocumentCategory]Constraint
	Upload(ctx context.Context, batch UploadBatch) (*UploadResult, error)
	Retry(ctx context.Context, batch UploadBatch) (*UploadResult, error)
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error
	Download(ctx context.Context, userID uuid.UUID, role domain.UserRole, fileID uuid.UUID) (*DownloadedFile, error)
	List(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) (*UploadResult, error)
}

type uploadService struct {
	fileRepo    port.FileMetaRepository
	appRepo     port.ApplicationRepository
	storage     port.ObjectStorage
	bucket      string
	constraints map[domain.DocumentCategory]Constraint
}

// NewUploadService creates a new UploadService.
func NewUploadService(
	fileRepo port.FileMetaRepository,
	appRepo port.ApplicationRepository,
	storage port.ObjectStorage,
	bucket string,
	constraints map[domain.DocumentCategory]Constraint,
) UploadService {
	return &uploadService{
		fileRepo:    fileRepo,
		appRepo:     appRepo,
		storage:     storage,
		bucket:      bucket,
		constraints: constraints,
	}
}

func (s *uploadService) Constraints() map[domain.DocumentCategory]Constraint {
	return s.constraints
}

type acceptedFile struct {
	IncomingFile
	contentType string
}

func (s *uploadService) Upload(ctx context.Context, batch UploadBatch) (*UploadResult, error) {
	limits, ok := s.constraints[batch.Category]
	if !ok {
		return nil, domain.ErrInvalidCategory
	}

	existing, err := s.fileRepo.ListByOwner(ctx, batch.OwnerID, batch.ApplicationNo, batch.Category)
	if err != nil {
		return nil, fmt.Errorf("listing existing files: %w", err)
	}

	result := &UploadResult{Category: batch.Category, Errors: []FileError{}}
	seen := make(map[string]bool)
	for i := range existing {
		if existing[i].Status == domain.FileStatusUploaded {
			seen[dupKey(existing[i].OriginalName, existing[i].FileSize)] = true
		}
	}

	var accepted []acceptedFile
	for _, f := range batch.Files {
		if f.CorrelationID == "" {
			f.CorrelationID = uuid.NewString()
		}
		contentType, ferr := s.check(f, limits, seen)
		if ferr != nil {
			metrics.RecordUpload(string(batch.Category), "rejected")
			result.Errors = append(result.Errors, *ferr)
			continue
		}
		seen[dupKey(f.Name, f.Size)] = true
		accepted = append(accepted, acceptedFile{IncomingFile: f, contentType: contentType})
	}

	remaining := limits.MaxFiles - len(existing)
	if remaining < 0 {
		remaining = 0
	}
	if len(accepted) > remaining {
		excess := accepted[remaining:]
		accepted = accepted[:remaining]
		names := make([]string, 0, len(excess))
		for _, f := range excess {
			names = append(names, f.Name)
			metrics.RecordUpload(string(batch.Category), "rejected")
		}
		result.Errors = append(result.Errors, FileError{
			Code: UploadErrMaxFiles,
			Message: fmt.Sprintf("A maximum of %d %s file(s) is allowed; not added: %s",
				limits.MaxFiles, batch.Category, strings.Join(names, ", ")),
		})
	}

	if !batch.AutoUpload {
		for _, f := range accepted {
			result.Staged = append(result.Staged, StagedFile{
				CorrelationID: f.CorrelationID,
				Name:          f.Name,
				Size:          f.Size,
				ContentType:   f.contentType,
			})
		}
		splitByStatus(result, existing)
		return result, nil
	}

	var (
		mu       sync.Mutex
		uploaded []domain.FileMeta
		failed   []domain.FileMeta
	)
	var g errgroup.Group
	for _, f := range accepted {
		f := f
		g.Go(func() error {
			meta := &domain.FileMeta{
				ID:            uuid.New(),
				OwnerID:       batch.OwnerID,
				Category:      batch.Category,
				CorrelationID: f.CorrelationID,
				OriginalName:  f.Name,
				FileSize:      f.Size,
				ContentType:   f.contentType,
				S3Bucket:      s.bucket,
				Status:        domain.FileStatusPending,
			}
			meta.S3Key = objectKey(batch.OwnerID, batch.Category, meta.ID, f.Name)
			if err := s.fileRepo.Create(ctx, meta); err != nil {
				return fmt.Errorf("creating file metadata: %w", err)
			}

			uerr := s.store(ctx, meta, f.IncomingFile)

			mu.Lock()
			defer mu.Unlock()
			if uerr != nil {
				failed = append(failed, *meta)
				result.Errors = append(result.Errors, FileError{
					CorrelationID: f.CorrelationID,
					Name:          f.Name,
					Code:          UploadErrUpload,
					Message:       fmt.Sprintf("%s could not be uploaded; retry to try again", f.Name),
				})
				return nil
			}
			uploaded = append(uploaded, *meta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	splitByStatus(result, existing)
	result.Uploaded = append(result.Uploaded, uploaded...)
	result.Failed = append(result.Failed, failed...)
	return result, nil
}

func (s *uploadService) Retry(ctx context.Context, batch UploadBatch) (*UploadResult, error) {
	limits, ok := s.constraints[batch.Category]
	if !ok {
		return nil, domain.ErrInvalidCategory
	}

	result := &UploadResult{Category: batch.Category, Errors: []FileError{}}
	var mu sync.Mutex
	var g errgroup.Group
	for _, f := range batch.Files {
		f := f
		g.Go(func() error {
			ferr := s.retryOne(ctx, batch.OwnerID, limits, f)
			if ferr != nil {
				mu.Lock()
				result.Errors = append(result.Errors, *ferr)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	files, err := s.fileRepo.ListByOwner(ctx, batch.OwnerID, batch.ApplicationNo, batch.Category)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	splitByStatus(result, files)
	return result, nil
}

func (s *uploadService) retryOne(ctx context.Context, ownerID uuid.UUID, limits Constraint, f IncomingFile) *FileError {
	meta, err := s.fileRepo.GetFailedByCorrelation(ctx, ownerID, f.CorrelationID)
	if err != nil {
		return &FileError{
			CorrelationID: f.CorrelationID,
			Name:          f.Name,
			Code:          UploadErrNotFailed,
			Message:       fmt.Sprintf("%s has no failed upload to retry", f.Name),
		}
	}
	if _, ferr := s.check(f, limits, nil); ferr != nil {
		return ferr
	}
	if err := s.store(ctx, meta, f); err != nil {
		return &FileError{
			CorrelationID: f.CorrelationID,
			Name:          f.Name,
			Code:          UploadErrUpload,
			Message:       fmt.Sprintf("%s could not be uploaded; retry to try again", f.Name),
		}
	}
	return nil
}

// store uploads the content and records the outcome on meta.
func (s *uploadService) store(ctx context.Context, meta *domain.FileMeta, f IncomingFile) error {
	err := s.put(ctx, meta, f)
	status := domain.FileStatusUploaded
	if err != nil {
		zap.L().Warn("upload to storage failed",
			zap.String("file_id", meta.ID.String()),
			zap.String("correlation_id", meta.CorrelationID),
			zap.Error(err))
		status = domain.FileStatusFailed
	}
	if serr := s.fileRepo.UpdateStatus(ctx, meta.ID, status); serr != nil {
		zap.L().Error("updating file status", zap.String("file_id", meta.ID.String()), zap.Error(serr))
		if err == nil {
			err = serr
			status = domain.FileStatusFailed
		}
	}
	meta.Status = status
	metrics.RecordUpload(string(meta.Category), string(status))
	return err
}

func (s *uploadService) put(ctx context.Context, meta *domain.FileMeta, f IncomingFile) error {
	body, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer func() { _ = body.Close() }()

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      meta.S3Bucket,
		Key:         meta.S3Key,
		Body:        body,
		ContentType: meta.ContentType,
		Size:        meta.FileSize,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return nil
}

// check applies the type, size and duplicate rules and returns the detected
// content type.
func (s *uploadService) check(f IncomingFile, limits Constraint, seen map[string]bool) (string, *FileError) {
	reject := func(code, msg string) *FileError {
		return &FileError{CorrelationID: f.CorrelationID, Name: f.Name, Code: code, Message: msg}
	}

	contentType, err := sniff(f)
	if err != nil || !limits.accepts(contentType) {
		return "", reject(UploadErrFileType, fmt.Sprintf("%s is not an accepted file type", f.Name))
	}
	if f.Size > limits.MaxSize {
		return "", reject(UploadErrFileSize,
			fmt.Sprintf("%s exceeds the maximum size of %d MB", f.Name, limits.MaxSize/(1024*1024)))
	}
	if seen[dupKey(f.Name, f.Size)] {
		return "", reject(UploadErrDuplicate, fmt.Sprintf("%s has already been added", f.Name))
	}
	return contentType, nil
}

// sniff detects the content type from the first bytes and requires the file
// extension to agree with it.
func sniff(f IncomingFile) (string, error) {
	body, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(body, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	detected, _, err := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	if err != nil {
		return "", err
	}
	if extensionTypes[strings.ToLower(filepath.Ext(f.Name))] != detected {
		return "", domain.ErrUnsupportedFileType
	}
	return detected, nil
}

func (s *uploadService) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if meta.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	if meta.ApplicationNo != nil {
		app, err := s.appRepo.GetByNo(ctx, *meta.ApplicationNo)
		if err != nil {
			return err
		}
		if app.Status != domain.StatusDraft {
			return domain.ErrInvalidTransition
		}
	}

	if meta.Status == domain.FileStatusUploaded {
		if err := s.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
			zap.L().Warn("deleting object failed; keeping record",
				zap.String("file_id", fileID.String()), zap.Error(err))
			return fmt.Errorf("deleting from storage: %w", err)
		}
	}
	return s.fileRepo.Delete(ctx, fileID)
}

func (s *uploadService) Download(ctx context.Context, userID uuid.UUID, role domain.UserRole, fileID uuid.UUID) (*DownloadedFile, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if meta.OwnerID != userID && role != domain.RoleAdmin {
		return nil, domain.ErrNotFound
	}
	if meta.Status != domain.FileStatusUploaded {
		return nil, domain.ErrNotFound
	}

	body, size, err := s.storage.Open(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("opening object: %w", err)
	}
	if size < 0 {
		size = meta.FileSize
	}
	return &DownloadedFile{Meta: meta, Body: body, Size: size}, nil
}

func (s *uploadService) List(ctx context.Context, ownerID uuid.UUID, applicationNo string, category domain.DocumentCategory) (*UploadResult, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	files, err := s.fileRepo.ListByOwner(ctx, ownerID, applicationNo, category)
	if err != nil {
		return nil, err
	}
	result := &UploadResult{Category: category, Errors: []FileError{}}
	splitByStatus(result, files)
	return result, nil
}

func splitByStatus(result *UploadResult, files []domain.FileMeta) {
	result.Uploaded = []domain.FileMeta{}
	result.Failed = []domain.FileMeta{}
	for i := range files {
		switch files[i].Status {
		case domain.FileStatusUploaded:
			result.Uploaded = append(result.Uploaded, files[i])
		case domain.FileStatusFailed:
			result.Failed = append(result.Failed, files[i])
		}
	}
}

func dupKey(name string, size int64) string {
	return fmt.Sprintf("%s|%d", name, size)
}

func objectKey(ownerID uuid.UUID, category domain.DocumentCategory, fileID uuid.UUID, name string) string {
	return fmt.Sprintf("applicants/%s/%s/%s/%s", ownerID, category, fileID, filepath.Base(name))
}
