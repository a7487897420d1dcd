package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated applicant or patent office reviewer.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Application is a patent application tracked by the office.
type Application struct {
	ID                  uuid.UUID         `db:"id" json:"id"`
	ApplicationNo       string            `db:"application_no" json:"application_no"`
	ApplicantID         uuid.UUID         `db:"applicant_id" json:"applicant_id"`
	Status              ApplicationStatus `db:"status" json:"status"`
	CurrentStage        int               `db:"current_stage" json:"current_stage"`
	Title               string            `db:"title" json:"title"`
	ApplicationTypeID   string            `db:"application_type_id" json:"application_type_id"`
	ClassificationID    string            `db:"classification_id" json:"classification_id"`
	FormData            json.RawMessage   `db:"form_data" json:"form_data"`
	LikelihoodRate      *float64          `db:"likelihood_rate" json:"likelihood_rate"`
	LikelihoodCheckedAt *time.Time        `db:"likelihood_checked_at" json:"likelihood_checked_at"`
	Signature           string            `db:"signature" json:"signature"`
	PaymentAmount       *int64            `db:"payment_amount" json:"payment_amount"`
	PaymentReference    string            `db:"payment_reference" json:"payment_reference"`
	CardLast4           string            `db:"card_last4" json:"card_last4"`
	PaidAt              *time.Time        `db:"paid_at" json:"paid_at"`
	ReviewedBy          *uuid.UUID        `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt          *time.Time        `db:"reviewed_at" json:"reviewed_at"`
	DecisionNote        string            `db:"decision_note" json:"decision_note"`
	RejectionCategoryID string            `db:"rejection_category_id" json:"rejection_category_id"`
	CreatedAt           time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updated_at"`
}

// Form decodes the accumulated stage data.
func (a *Application) Form() FormData {
	form := FormData{}
	if len(a.FormData) > 0 {
		_ = json.Unmarshal(a.FormData, &form)
	}
	return form
}

// FileMeta stores metadata about an uploaded application document.
type FileMeta struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	OwnerID       uuid.UUID        `db:"owner_id" json:"owner_id"`
	ApplicationNo *string          `db:"application_no" json:"application_no"`
	Category      DocumentCategory `db:"category" json:"category"`
	CorrelationID string           `db:"correlation_id" json:"correlation_id"`
	OriginalName  string           `db:"original_name" json:"name"`
	FileSize      int64            `db:"file_size" json:"size"`
	ContentType   string           `db:"content_type" json:"type"`
	S3Bucket      string           `db:"s3_bucket" json:"-"`
	S3Key         string           `db:"s3_key" json:"-"`
	Status        FileStatus       `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// ReferenceItem is one entry of a lookup list such as countries or classifications.
type ReferenceItem struct {
	Kind       ReferenceKind `db:"kind" json:"kind"`
	Code       string        `db:"code" json:"code"`
	Name       string        `db:"name" json:"name"`
	ParentCode string        `db:"parent_code" json:"parent_code,omitempty"`
	SortOrder  int           `db:"sort_order" json:"-"`
}

// Feedback is a reviewer note asking the applicant for changes.
type Feedback struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationNo string    `db:"application_no" json:"application_no"`
	AdminID       uuid.UUID `db:"admin_id" json:"admin_id"`
	CategoryID    string    `db:"category_id" json:"category_id"`
	Message       string    `db:"message" json:"message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Draft is the in-progress wizard state of one signed-in user.
type Draft struct {
	SessionID     string    `json:"session_id"`
	ApplicationNo string    `json:"application_no"`
	Step          int       `json:"step"`
	Pending       bool      `json:"pending"`
	PendingSince  time.Time `json:"pending_since"`
	Form          FormData  `json:"form_data"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ApplicationSummary is the reviewer's read-only view of an application.
type ApplicationSummary struct {
	Application *Application                    `json:"application"`
	Documents   map[DocumentCategory][]FileMeta `json:"documents"`
	Feedback    []Feedback                      `json:"feedback"`
}
