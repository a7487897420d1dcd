package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"patentdesk/internal/csvexport"
	"patentdesk/internal/domain"
	"patentdesk/internal/port"
)

const exportBatchSize = 500

// DecisionInput is the DTO for approve, reject and feedback requests.
type DecisionInput struct {
	CategoryID string `json:"category_id"`
	Message    string `json:"message"`
}

// ReviewService defines the reviewer workflow over submitted applications.
type ReviewService interface {
	List(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error)
	Summary(ctx context.Context, applicationNo string) (*domain.ApplicationSummary, error)
	Approve(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Application, error)
	Reject(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Application, error)
	RequestFeedback(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, applicationNo string) ([]domain.Feedback, error)
	Export(ctx context.Context, status domain.ApplicationStatus, w io.Writer) error
}

type reviewService struct {
	appRepo      port.ApplicationRepository
	fileRepo     port.FileMetaRepository
	feedbackRepo port.FeedbackRepository
	userRepo     port.UserRepository
	emailSender  port.EmailSender
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	appRepo port.ApplicationRepository,
	fileRepo port.FileMetaRepository,
	feedbackRepo port.FeedbackRepository,
	userRepo port.UserRepository,
	emailSender port.EmailSender,
) ReviewService {
	return &reviewService{
		appRepo:      appRepo,
		fileRepo:     fileRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		emailSender:  emailSender,
	}
}

func (s *reviewService) List(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]domain.Application, int, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.appRepo.ListByStatus(ctx, status, offset, limit)
}

func (s *reviewService) Summary(ctx context.Context, applicationNo string) (*domain.ApplicationSummary, error) {
	app, err := s.appRepo.GetByNo(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	files, err := s.fileRepo.ListByApplication(ctx, applicationNo)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	feedback, err := s.feedbackRepo.ListByApplication(ctx, applicationNo)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}

	docs := make(map[domain.DocumentCategory][]domain.FileMeta, len(domain.DocumentCategories))
	for _, c := range domain.DocumentCategories {
		docs[c] = []domain.FileMeta{}
	}
	for i := range files {
		docs[files[i].Category] = append(docs[files[i].Category], files[i])
	}
	if feedback == nil {
		feedback = []domain.Feedback{}
	}
	return &domain.ApplicationSummary{Application: app, Documents: docs, Feedback: feedback}, nil
}

func (s *reviewService) Approve(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Application, error) {
	return s.decide(ctx, adminID, applicationNo, domain.StatusApproved, input)
}

func (s *reviewService) Reject(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Application, error) {
	if strings.TrimSpace(input.CategoryID) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: rejection requires a category and a reason", domain.ErrStepValidation)
	}
	return s.decide(ctx, adminID, applicationNo, domain.StatusRejected, input)
}

func (s *reviewService) decide(
	ctx context.Context,
	adminID uuid.UUID,
	applicationNo string,
	next domain.ApplicationStatus,
	input DecisionInput,
) (*domain.Application, error) {
	app, err := s.appRepo.GetByNo(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	app.Status = next
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now
	app.DecisionNote = input.Message
	if next == domain.StatusRejected {
		app.RejectionCategoryID = input.CategoryID
	}
	if err := s.appRepo.UpdateDecision(ctx, app); err != nil {
		return nil, fmt.Errorf("recording decision: %w", err)
	}

	zap.L().Info("application decided",
		zap.String("application_no", applicationNo),
		zap.String("status", string(next)),
		zap.String("admin_id", adminID.String()))
	s.notify(ctx, app, string(next), input.Message)
	return app, nil
}

func (s *reviewService) RequestFeedback(ctx context.Context, adminID uuid.UUID, applicationNo string, input DecisionInput) (*domain.Feedback, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: feedback message is required", domain.ErrStepValidation)
	}
	app, err := s.appRepo.GetByNo(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	// Further feedback on an application already awaiting changes is allowed.
	if app.Status != domain.StatusFeedbackRequested && !app.Status.CanTransitionTo(domain.StatusFeedbackRequested) {
		return nil, domain.ErrInvalidTransition
	}

	fb := &domain.Feedback{
		ApplicationNo: applicationNo,
		AdminID:       adminID,
		CategoryID:    input.CategoryID,
		Message:       input.Message,
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("creating feedback: %w", err)
	}

	if app.Status != domain.StatusFeedbackRequested {
		now := time.Now().UTC()
		app.Status = domain.StatusFeedbackRequested
		app.ReviewedBy = &adminID
		app.ReviewedAt = &now
		app.DecisionNote = input.Message
		if err := s.appRepo.UpdateDecision(ctx, app); err != nil {
			return nil, fmt.Errorf("recording feedback request: %w", err)
		}
	}

	s.notify(ctx, app, string(domain.StatusFeedbackRequested), input.Message)
	return fb, nil
}

func (s *reviewService) ListFeedback(ctx context.Context, applicationNo string) ([]domain.Feedback, error) {
	if _, err := s.appRepo.GetByNo(ctx, applicationNo); err != nil {
		return nil, err
	}
	return s.feedbackRepo.ListByApplication(ctx, applicationNo)
}

func (s *reviewService) Export(ctx context.Context, status domain.ApplicationStatus, w io.Writer) error {
	if status != "" && !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	if _, err := w.Write(csvexport.BOM); err != nil {
		return err
	}

	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for offset := 0; ; offset += exportBatchSize {
		apps, total, err := s.appRepo.ListByStatus(ctx, status, offset, exportBatchSize)
		if err != nil {
			return fmt.Errorf("listing applications for export: %w", err)
		}
		if err := cw.WriteApplications(apps); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if len(apps) < exportBatchSize || offset+len(apps) >= total {
			return nil
		}
	}
}

// notify emails the applicant. Delivery failures are logged, not returned.
func (s *reviewService) notify(ctx context.Context, app *domain.Application, decision, message string) {
	user, err := s.userRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		zap.L().Warn("looking up applicant for notification",
			zap.String("application_no", app.ApplicationNo), zap.Error(err))
		return
	}
	err = s.emailSender.SendDecisionEmail(ctx, port.DecisionEmail{
		ToEmail:       user.Email,
		ToName:        user.FullName,
		ApplicationNo: app.ApplicationNo,
		Decision:      decision,
		Message:       message,
	})
	if err != nil {
		zap.L().Warn("sending decision email",
			zap.String("application_no", app.ApplicationNo), zap.Error(err))
	}
}
