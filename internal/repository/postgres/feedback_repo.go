package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

type feedbackRepo struct {
	db *sqlx.DB
}

// NewFeedbackRepo creates a new PostgreSQL-backed FeedbackRepository.
func NewFeedbackRepo(db *sqlx.DB) port.FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	fb.ID = uuid.New()
	fb.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO application_feedback (id, application_no, admin_id, category_id, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.ApplicationNo, fb.AdminID, fb.CategoryID, fb.Message, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("feedbackRepo.Create: %w", err)
	}
	return nil
}

func (r *feedbackRepo) ListByApplication(ctx context.Context, applicationNo string) ([]domain.Feedback, error) {
	var items []domain.Feedback
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM application_feedback WHERE application_no = $1 ORDER BY created_at DESC",
		applicationNo)
	if err != nil {
		return nil, fmt.Errorf("feedbackRepo.ListByApplication: %w", err)
	}
	return items, nil
}
