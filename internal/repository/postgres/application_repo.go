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

type applicationRepo struct {
	db *sqlx.DB
}

// NewApplicationRepo creates a new PostgreSQL-backed ApplicationRepository.
func NewApplicationRepo(db *sqlx.DB) port.ApplicationRepository {
	return &applicationRepo{db: db}
}

// FormatApplicationNo renders the public application number for a sequence value.
func FormatApplicationNo(year int, seq int64) string {
	return fmt.Sprintf("PA-%d-%06d", year, seq)
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, "SELECT nextval('application_no_seq')"); err != nil {
		return fmt.Errorf("applicationRepo.Create sequence: %w", err)
	}

	now := time.Now().UTC()
	app.ID = uuid.New()
	app.ApplicationNo = FormatApplicationNo(now.Year(), seq)
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusDraft
	}
	if len(app.FormData) == 0 {
		app.FormData = []byte("{}")
	}

	query := `INSERT INTO applications
		(id, application_no, applicant_id, status, current_stage, title, application_type_id,
		 classification_id, form_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.ApplicationNo, app.ApplicantID, app.Status, app.CurrentStage,
		app.Title, app.ApplicationTypeID, app.ClassificationID, app.FormData,
		app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("applicationRepo.Create: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByNo(ctx context.Context, applicationNo string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app,
		"SELECT * FROM applications WHERE application_no = $1", applicationNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("applicationRepo.GetByNo: %w", err)
	}
	return &app, nil
}

func (r *applicationRepo) UpdateStage(ctx context.Context, app *domain.Application) error {
	app.UpdatedAt = time.Now().UTC()
	query := `UPDATE applications SET
		current_stage = GREATEST(current_stage, $1), title = $2, application_type_id = $3,
		classification_id = $4, form_data = $5, signature = $6, card_last4 = $7, updated_at = $8
		WHERE application_no = $9 AND status = $10`
	result, err := r.db.ExecContext(ctx, query,
		app.CurrentStage, app.Title, app.ApplicationTypeID, app.ClassificationID,
		app.FormData, app.Signature, app.CardLast4, app.UpdatedAt,
		app.ApplicationNo, domain.StatusDraft)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateStage: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepo) UpdateLikelihood(ctx context.Context, applicationNo string, rate float64, checkedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET likelihood_rate = $1, likelihood_checked_at = $2, updated_at = $2
		 WHERE application_no = $3`,
		rate, checkedAt, applicationNo)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateLikelihood: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepo) RecordPayment(ctx context.Context, applicationNo string, amount int64, reference string, paidAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET payment_amount = $1, payment_reference = $2, paid_at = $3,
		 status = $4, updated_at = $3
		 WHERE application_no = $5 AND status = $6`,
		amount, reference, paidAt, domain.StatusSubmitted, applicationNo, domain.StatusDraft)
	if err != nil {
		return fmt.Errorf("applicationRepo.RecordPayment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *applicationRepo) UpdateDecision(ctx context.Context, app *domain.Application) error {
	app.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $1, reviewed_by = $2, reviewed_at = $3,
		 decision_note = $4, rejection_category_id = $5, updated_at = $6
		 WHERE application_no = $7`,
		app.Status, app.ReviewedBy, app.ReviewedAt, app.DecisionNote,
		app.RejectionCategoryID, app.UpdatedAt, app.ApplicationNo)
	if err != nil {
		return fmt.Errorf("applicationRepo.UpdateDecision: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM applications WHERE applicant_id = $1", applicantID)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.ListByApplicant count: %w", err)
	}

	var apps []domain.Application
	err = r.db.SelectContext(ctx, &apps,
		`SELECT * FROM applications WHERE applicant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		applicantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.ListByApplicant: %w", err)
	}
	return apps, total, nil
}

// ListByStatus lists applications in a status, or every non-draft
// application when status is empty.
func (r *applicationRepo) ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error) {
	where := "status != $1"
	arg := domain.StatusDraft
	if status != "" {
		where = "status = $1"
		arg = status
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM applications WHERE "+where, arg)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.ListByStatus count: %w", err)
	}

	var apps []domain.Application
	err = r.db.SelectContext(ctx, &apps,
		"SELECT * FROM applications WHERE "+where+" ORDER BY updated_at DESC LIMIT $2 OFFSET $3",
		arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.ListByStatus: %w", err)
	}
	return apps, total, nil
}

func (r *applicationRepo) ListApprovedByClassification(ctx context.Context, classificationID string, limit int) ([]domain.Application, error) {
	var apps []domain.Application
	err := r.db.SelectContext(ctx, &apps,
		`SELECT * FROM applications WHERE status = $1 AND classification_id = $2
		 ORDER BY reviewed_at DESC NULLS LAST LIMIT $3`,
		domain.StatusApproved, classificationID, limit)
	if err != nil {
		return nil, fmt.Errorf("applicationRepo.ListApprovedByClassification: %w", err)
	}
	return apps, nil
}
