package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

// JanitorConfig holds settings for the upload janitor.
type JanitorConfig struct {
	Schedule        string
	FailedRetention time.Duration
}

// Job is an extra task run on the janitor schedule.
type Job struct {
	Name string
	Run  func(ctx context.Context)
}

// Janitor periodically purges abandoned uploads: failed uploads nobody
// retried and pending records left behind by interrupted requests.
type Janitor struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      JanitorConfig
	jobs     []Job
	cron     *cron.Cron
}

// NewJanitor creates a new Janitor.
func NewJanitor(fileRepo port.FileMetaRepository, storage port.ObjectStorage, cfg JanitorConfig, jobs ...Job) *Janitor {
	return &Janitor{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
		jobs:     jobs,
	}
}

// Start schedules the sweep and returns immediately.
func (j *Janitor) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.cfg.Schedule, j.run); err != nil {
		return fmt.Errorf("scheduling janitor %q: %w", j.cfg.Schedule, err)
	}
	j.cron.Start()
	zap.L().Info("janitor started",
		zap.String("schedule", j.cfg.Schedule),
		zap.Duration("failed_retention", j.cfg.FailedRetention))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	zap.L().Info("janitor stopped")
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if n, err := j.Sweep(ctx, time.Now()); err != nil {
		zap.L().Error("janitor sweep failed", zap.Int("purged", n), zap.Error(err))
	} else if n > 0 {
		zap.L().Info("janitor sweep", zap.Int("purged", n))
	}
	for _, job := range j.jobs {
		job.Run(ctx)
	}
}

// Sweep purges failed and pending uploads not touched since
// now - FailedRetention and reports how many were removed.
func (j *Janitor) Sweep(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-j.cfg.FailedRetention)
	purged := 0
	var errs []error

	for _, status := range []domain.FileStatus{domain.FileStatusFailed, domain.FileStatusPending} {
		files, err := j.fileRepo.ListStale(ctx, status, cutoff)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i := range files {
			meta := &files[i]
			// Partial multipart uploads may have left an object behind.
			if err := j.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
				zap.L().Warn("janitor: deleting object",
					zap.String("file_id", meta.ID.String()), zap.Error(err))
			}
			if err := j.fileRepo.Delete(ctx, meta.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				errs = append(errs, err)
				continue
			}
			purged++
		}
	}
	return purged, errors.Join(errs...)
}
