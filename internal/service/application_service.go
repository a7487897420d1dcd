package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/port"
	"patentdesk/internal/wizard"
)

const similarApplicationsLimit = 20

// sensitiveFields are accepted by the payment step but never persisted.
var sensitiveFields = []string{
	wizard.FieldCardNumber,
	wizard.FieldCVV,
	wizard.FieldExpiryMonth,
	wizard.FieldExpiryYear,
}

// PaymentSuccessInput is the DTO for recording a completed payment.
type PaymentSuccessInput struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// ApplicationService defines the applicant-side application contract.
type ApplicationService interface {
	Create(ctx context.Context, applicantID uuid.UUID, form domain.FormData) (*domain.Application, error)
	UpdateStage(ctx context.Context, applicantID uuid.UUID, applicationNo string, stage int, form domain.FormData) (*domain.Application, error)
	RecordLikelihood(ctx context.Context, applicantID uuid.UUID, applicationNo string, rate float64) error
	Get(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error)
	ListMine(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error)
	ListFeedback(ctx context.Context, applicantID uuid.UUID, applicationNo string) ([]domain.Feedback, error)
	Cancel(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error)
	PatentDetail(ctx context.Context, applicationNo string) (*domain.Application, error)
	Similar(ctx context.Context, classificationID string) ([]domain.Application, error)
	RecordPaymentSuccess(ctx context.Context, applicantID uuid.UUID, applicationNo string, input PaymentSuccessInput) (*domain.Application, error)
}

type applicationService struct {
	appRepo      port.ApplicationRepository
	fileRepo     port.FileMetaRepository
	feedbackRepo port.FeedbackRepository
	userRepo     port.UserRepository
	emailSender  port.EmailSender
	cfg          config.WizardConfig
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	appRepo port.ApplicationRepository,
	fileRepo port.FileMetaRepository,
	feedbackRepo port.FeedbackRepository,
	userRepo port.UserRepository,
	emailSender port.EmailSender,
	cfg config.WizardConfig,
) ApplicationService {
	return &applicationService{
		appRepo:      appRepo,
		fileRepo:     fileRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		emailSender:  emailSender,
		cfg:          cfg,
	}
}

func (s *applicationService) Create(ctx context.Context, applicantID uuid.UUID, form domain.FormData) (*domain.Application, error) {
	data, err := persistableForm(form)
	if err != nil {
		return nil, err
	}
	app := &domain.Application{
		ApplicantID:  applicantID,
		Status:       domain.StatusDraft,
		CurrentStage: 1,
		FormData:     data,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	zap.L().Info("application created",
		zap.String("application_no", app.ApplicationNo),
		zap.String("applicant_id", applicantID.String()))
	return app, nil
}

func (s *applicationService) UpdateStage(
	ctx context.Context,
	applicantID uuid.UUID,
	applicationNo string,
	stage int,
	form domain.FormData,
) (*domain.Application, error) {
	app, err := s.ownedDraft(ctx, applicantID, applicationNo)
	if err != nil {
		return nil, err
	}

	switch stage {
	case 2:
		app.Title = form.String(wizard.FieldTitle)
		app.ApplicationTypeID = form.String(wizard.FieldAppTypeID)
		app.ClassificationID = form.String(wizard.FieldClassID)
	case 3:
		if err := s.attachDocuments(ctx, applicantID, applicationNo, form); err != nil {
			return nil, err
		}
	case 6:
		app.Signature = form.String(wizard.FieldSignature)
	case 7:
		digits := wizard.CardDigits(form.String(wizard.FieldCardNumber))
		if len(digits) >= 4 {
			app.CardLast4 = digits[len(digits)-4:]
		}
	}

	data, err := persistableForm(form)
	if err != nil {
		return nil, err
	}
	app.FormData = data
	app.CurrentStage = stage

	if err := s.appRepo.UpdateStage(ctx, app); err != nil {
		return nil, fmt.Errorf("updating stage %d: %w", stage, err)
	}
	return app, nil
}

// attachDocuments binds each document list to the application. A file only
// counts toward the list of its own category.
func (s *applicationService) attachDocuments(ctx context.Context, applicantID uuid.UUID, applicationNo string, form domain.FormData) error {
	for _, category := range domain.DocumentCategories {
		var ids []uuid.UUID
		for _, raw := range form.List(string(category)) {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("%w: invalid %s file id %q", domain.ErrStepValidation, category, raw)
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}
		if err := s.fileRepo.AttachToApplication(ctx, applicantID, applicationNo, category, ids); err != nil {
			return fmt.Errorf("attaching %s documents: %w", category, err)
		}
	}
	return nil
}

func (s *applicationService) RecordLikelihood(ctx context.Context, applicantID uuid.UUID, applicationNo string, rate float64) error {
	if _, err := s.ownedDraft(ctx, applicantID, applicationNo); err != nil {
		return err
	}
	return s.appRepo.UpdateLikelihood(ctx, applicationNo, rate, time.Now().UTC())
}

func (s *applicationService) Get(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error) {
	app, err := s.appRepo.GetByNo(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, domain.ErrApplicationNotFound
	}
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, applicantID uuid.UUID, offset, limit int) ([]domain.Application, int, error) {
	return s.appRepo.ListByApplicant(ctx, applicantID, offset, limit)
}

func (s *applicationService) ListFeedback(ctx context.Context, applicantID uuid.UUID, applicationNo string) ([]domain.Feedback, error) {
	if _, err := s.Get(ctx, applicantID, applicationNo); err != nil {
		return nil, err
	}
	return s.feedbackRepo.ListByApplication(ctx, applicationNo)
}

func (s *applicationService) Cancel(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error) {
	app, err := s.Get(ctx, applicantID, applicationNo)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}

	app.Status = domain.StatusCancelled
	if err := s.appRepo.UpdateDecision(ctx, app); err != nil {
		return nil, fmt.Errorf("cancelling application: %w", err)
	}
	zap.L().Info("application cancelled", zap.String("application_no", applicationNo))
	return app, nil
}

func (s *applicationService) PatentDetail(ctx context.Context, applicationNo string) (*domain.Application, error) {
	app, err := s.appRepo.GetByNo(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusApproved {
		return nil, domain.ErrApplicationNotApproved
	}
	return publicView(app), nil
}

func (s *applicationService) Similar(ctx context.Context, classificationID string) ([]domain.Application, error) {
	classificationID = strings.TrimSpace(classificationID)
	if classificationID == "" {
		return []domain.Application{}, nil
	}
	apps, err := s.appRepo.ListApprovedByClassification(ctx, classificationID, similarApplicationsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Application, 0, len(apps))
	for i := range apps {
		out = append(out, *publicView(&apps[i]))
	}
	return out, nil
}

func (s *applicationService) RecordPaymentSuccess(
	ctx context.Context,
	applicantID uuid.UUID,
	applicationNo string,
	input PaymentSuccessInput,
) (*domain.Application, error) {
	app, err := s.Get(ctx, applicantID, applicationNo)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusDraft || app.CurrentStage < 7 {
		return nil, domain.ErrInvalidTransition
	}
	if input.Amount != s.cfg.ApplicationFee {
		return nil, domain.ErrPaymentAmountMismatch
	}

	paidAt := time.Now().UTC()
	if err := s.appRepo.RecordPayment(ctx, applicationNo, input.Amount, input.TransactionID, paidAt); err != nil {
		return nil, err
	}
	app.Status = domain.StatusSubmitted
	app.PaymentAmount = &input.Amount
	app.PaymentReference = input.TransactionID
	app.PaidAt = &paidAt

	zap.L().Info("payment recorded",
		zap.String("application_no", applicationNo),
		zap.String("transaction_id", input.TransactionID))

	if user, err := s.userRepo.GetByID(ctx, applicantID); err == nil {
		if err := s.emailSender.SendSubmissionReceipt(ctx, user.Email, user.FullName, applicationNo, input.Amount, s.cfg.Currency); err != nil {
			zap.L().Warn("sending submission receipt", zap.String("application_no", applicationNo), zap.Error(err))
		}
	}
	return app, nil
}

func (s *applicationService) ownedDraft(ctx context.Context, applicantID uuid.UUID, applicationNo string) (*domain.Application, error) {
	if applicationNo == "" {
		return nil, domain.ErrApplicationNotStarted
	}
	app, err := s.Get(ctx, applicantID, applicationNo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status != domain.StatusDraft {
		return nil, domain.ErrInvalidTransition
	}
	return app, nil
}

// persistableForm encodes the form without payment card secrets.
func persistableForm(form domain.FormData) (json.RawMessage, error) {
	clean := form.Clone()
	for _, key := range sensitiveFields {
		delete(clean, key)
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encoding form data: %w", err)
	}
	return data, nil
}

// publicView strips applicant-private fields from an approved patent.
func publicView(app *domain.Application) *domain.Application {
	out := *app
	out.FormData = nil
	out.Signature = ""
	out.CardLast4 = ""
	out.PaymentReference = ""
	out.PaymentAmount = nil
	out.ApplicantID = uuid.Nil
	return &out
}
