package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

func TestJanitor_Sweep(t *testing.T) {
	files := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	failed := domain.FileMeta{ID: uuid.New(), S3Bucket: "patents", S3Key: "failed.pdf"}
	pending := domain.FileMeta{ID: uuid.New(), S3Bucket: "patents", S3Key: "pending.pdf"}
	files.On("ListStale", mock.Anything, domain.FileStatusFailed, cutoff).Return([]domain.FileMeta{failed}, nil)
	files.On("ListStale", mock.Anything, domain.FileStatusPending, cutoff).Return([]domain.FileMeta{pending}, nil)
	storage.On("Delete", mock.Anything, "patents", "failed.pdf").Return(nil)
	storage.On("Delete", mock.Anything, "patents", "pending.pdf").Return(errors.New("NoSuchKey"))
	files.On("Delete", mock.Anything, failed.ID).Return(nil)
	files.On("Delete", mock.Anything, pending.ID).Return(domain.ErrNotFound)

	j := service.NewJanitor(files, storage, service.JanitorConfig{Schedule: "@every 1h", FailedRetention: 24 * time.Hour})
	purged, err := j.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	files.AssertExpectations(t)
}

func TestJanitor_Sweep_ReportsListErrors(t *testing.T) {
	files := new(mocks.MockFileMetaRepo)
	files.On("ListStale", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	j := service.NewJanitor(files, new(mocks.MockObjectStorage), service.JanitorConfig{FailedRetention: time.Hour})
	purged, err := j.Sweep(context.Background(), time.Now())

	assert.Error(t, err)
	assert.Zero(t, purged)
}

func TestJanitor_StartRejectsBadSchedule(t *testing.T) {
	j := service.NewJanitor(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), service.JanitorConfig{Schedule: "every so often"})

	assert.Error(t, j.Start())
	j.Stop()
}
