package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/metrics"
	"patentdesk/internal/port"
	"patentdesk/internal/wizard"
)

const propagateInterval = 100 * time.Millisecond

// Navigation tells the client which wizard page to show next.
type Navigation struct {
	Step          int    `json:"step"`
	URL           string `json:"url"`
	ApplicationNo string `json:"application_no,omitempty"`
	// Pending is set when the application was created but its number has not
	// reached the draft yet. Restore advances the draft once it arrives.
	Pending bool `json:"pending"`
}

// StepResult is the outcome of triggering a wizard step.
type StepResult struct {
	Valid      bool              `json:"valid"`
	Errors     map[string]string `json:"errors,omitempty"`
	Navigation *Navigation       `json:"navigation,omitempty"`
}

// LikelihoodResult is the stored outcome of a likelihood check.
type LikelihoodResult struct {
	Rate      float64   `json:"rate"`
	CheckedAt time.Time `json:"checked_at"`
}

// WizardService drives the multi-step application wizard for signed-in
// applicants. Drafts are keyed by user.
type WizardService interface {
	Restore(ctx context.Context, userID uuid.UUID) (*domain.Draft, error)
	Update(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*domain.Draft, error)
	Next(ctx context.Context, userID uuid.UUID, step int, fields domain.FormData) (*StepResult, error)
	Prev(ctx context.Context, userID uuid.UUID, step int) (*Navigation, error)
	Submit(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*StepResult, error)
	CheckLikelihood(ctx context.Context, userID uuid.UUID) (*LikelihoodResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type wizardService struct {
	drafts   port.DraftStore
	apps     ApplicationService
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	scorer   port.LikelihoodScorer
	flow     *wizard.Flow
	cfg      config.WizardConfig
}

// NewWizardService creates a new WizardService.
func NewWizardService(
	drafts port.DraftStore,
	apps ApplicationService,
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	scorer port.LikelihoodScorer,
	flow *wizard.Flow,
	cfg config.WizardConfig,
) WizardService {
	return &wizardService{
		drafts:   drafts,
		apps:     apps,
		fileRepo: fileRepo,
		storage:  storage,
		scorer:   scorer,
		flow:     flow,
		cfg:      cfg,
	}
}

func (s *wizardService) Restore(ctx context.Context, userID uuid.UUID) (*domain.Draft, error) {
	draft, err := s.drafts.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if draft.Pending && draft.ApplicationNo != "" {
		draft.Pending = false
		draft.PendingSince = time.Time{}
		draft.Step = 2
		if err := s.drafts.Save(ctx, draft); err != nil {
			return nil, err
		}
		zap.L().Info("pending navigation resolved",
			zap.String("session", draft.SessionID),
			zap.String("application_no", draft.ApplicationNo))
	}
	if draft.Pending {
		if err := s.resolvePending(ctx, userID, draft); err != nil {
			zap.L().Warn("recovering pending application number",
				zap.String("session", draft.SessionID), zap.Error(err))
		}
	}
	return draft, nil
}

func (s *wizardService) Update(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*domain.Draft, error) {
	draft, err := s.drafts.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	draft.Form.Merge(clientFields(fields))
	dropStaleLikelihood(draft.Form)
	stripSensitive(draft.Form)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *wizardService) Next(ctx context.Context, userID uuid.UUID, step int, fields domain.FormData) (*StepResult, error) {
	st, err := s.flow.Step(step)
	if err != nil {
		return nil, err
	}

	sessionID := userID.String()
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Pending && draft.ApplicationNo == "" {
		if err := s.resolvePending(ctx, userID, draft); err != nil {
			return nil, err
		}
		if draft.Pending {
			return nil, domain.ErrApplicationNoPending
		}
	}
	if step > draft.Step {
		return nil, domain.ErrInvalidStep
	}

	// Card secrets are validated from the request but never stored.
	working := draft.Form.Clone()
	working.Merge(clientFields(fields))
	dropStaleLikelihood(working)
	draft.Form = working.Clone()
	stripSensitive(draft.Form)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	result := st.Validate(working)
	if !result.Valid {
		metrics.RecordStep(step, "invalid")
		return &StepResult{Valid: false, Errors: result.Errors}, nil
	}

	if step == 1 && draft.ApplicationNo == "" {
		return s.createApplication(ctx, userID, working)
	}
	if draft.ApplicationNo == "" {
		metrics.RecordStep(step, "error")
		return nil, domain.ErrApplicationNotStarted
	}

	if _, err := s.apps.UpdateStage(ctx, userID, draft.ApplicationNo, step, working); err != nil {
		metrics.RecordStep(step, "error")
		zap.L().Error("stage commit failed",
			zap.Int("step", step),
			zap.String("application_no", draft.ApplicationNo),
			zap.Error(err))
		return nil, fmt.Errorf("committing step %d: %w", step, err)
	}

	metrics.RecordStep(step, "advanced")
	if s.flow.IsLast(step) {
		return &StepResult{Valid: true, Navigation: &Navigation{
			Step:          step,
			URL:           s.paymentURL(draft.ApplicationNo),
			ApplicationNo: draft.ApplicationNo,
		}}, nil
	}
	return s.advance(ctx, sessionID, step+1, draft.ApplicationNo)
}

// createApplication commits step 1 for a draft without an application
// number and waits, bounded by the pending timeout, for the number to become
// visible in the draft store.
func (s *wizardService) createApplication(ctx context.Context, userID uuid.UUID, form domain.FormData) (*StepResult, error) {
	sessionID := userID.String()
	startedAt := time.Now().UTC()

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.PendingTimeout)
	defer cancel()

	// Subscribe before the number can be published.
	watch, err := s.drafts.WatchApplicationNo(waitCtx, sessionID)
	if err != nil {
		zap.L().Warn("watching application number", zap.String("session", sessionID), zap.Error(err))
	}

	app, err := s.apps.Create(ctx, userID, form)
	if err != nil {
		metrics.RecordStep(1, "error")
		zap.L().Error("stage commit failed", zap.Int("step", 1), zap.Error(err))
		return nil, fmt.Errorf("committing step 1: %w", err)
	}

	marked := false
	if err := s.drafts.SetApplicationNo(ctx, sessionID, app.ApplicationNo); err != nil {
		zap.L().Warn("application number not yet stored in draft",
			zap.String("application_no", app.ApplicationNo), zap.Error(err))
		// Mark before propagating so the pending write cannot clobber the number.
		if err := s.markPending(ctx, sessionID, startedAt); err != nil {
			return nil, err
		}
		marked = true
		go s.propagate(sessionID, app.ApplicationNo)
	}

	appNo := s.visibleApplicationNo(ctx, sessionID)
	if appNo == "" {
		start := time.Now()
		select {
		case n, ok := <-watch:
			if ok {
				appNo = n
			}
		case <-waitCtx.Done():
		}
		metrics.ObservePendingWait(time.Since(start))
	}

	if appNo == "" {
		metrics.RecordStep(1, "pending")
		if !marked {
			if err := s.markPending(ctx, sessionID, startedAt); err != nil {
				return nil, err
			}
		}
		return &StepResult{Valid: true, Navigation: &Navigation{
			Step:    1,
			URL:     wizard.URL(1, ""),
			Pending: true,
		}}, nil
	}

	metrics.RecordStep(1, "advanced")
	return s.advance(ctx, sessionID, 2, appNo)
}

// propagate retries writing the application number into the draft until it
// succeeds or the pending timeout elapses. When it gives up, resolvePending
// recovers the number from the application records on the next request.
func (s *wizardService) propagate(sessionID, applicationNo string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PendingTimeout)
	defer cancel()

	ticker := time.NewTicker(propagateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			zap.L().Error("giving up storing application number in draft",
				zap.String("session", sessionID),
				zap.String("application_no", applicationNo))
			return
		case <-ticker.C:
			if err := s.drafts.SetApplicationNo(ctx, sessionID, applicationNo); err == nil {
				return
			}
		}
	}
}

func (s *wizardService) visibleApplicationNo(ctx context.Context, sessionID string) string {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return ""
	}
	return draft.ApplicationNo
}

func (s *wizardService) markPending(ctx context.Context, sessionID string, since time.Time) error {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if draft.ApplicationNo != "" {
		// Arrived after the wait ended.
		draft.Step = 2
		draft.Pending = false
	} else {
		draft.Pending = true
		draft.PendingSince = since
	}
	return s.drafts.Save(ctx, draft)
}

// resolvePending adopts the applicant's newest draft application created since
// the draft went pending. A draft still unresolved after propagate has given
// up is released so step 1 can be retried.
func (s *wizardService) resolvePending(ctx context.Context, userID uuid.UUID, draft *domain.Draft) error {
	apps, _, err := s.apps.ListMine(ctx, userID, 0, 1)
	if err != nil {
		return fmt.Errorf("recovering application number: %w", err)
	}
	switch {
	case len(apps) > 0 && apps[0].Status == domain.StatusDraft && !apps[0].CreatedAt.Before(draft.PendingSince):
		draft.ApplicationNo = apps[0].ApplicationNo
		if draft.Step < 2 {
			draft.Step = 2
		}
		zap.L().Info("pending application number recovered",
			zap.String("session", draft.SessionID),
			zap.String("application_no", draft.ApplicationNo))
	case time.Since(draft.PendingSince) > 2*s.cfg.PendingTimeout:
		zap.L().Warn("releasing unresolved pending draft", zap.String("session", draft.SessionID))
	default:
		return nil
	}
	draft.Pending = false
	draft.PendingSince = time.Time{}
	return s.drafts.Save(ctx, draft)
}

func (s *wizardService) advance(ctx context.Context, sessionID string, step int, applicationNo string) (*StepResult, error) {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.ApplicationNo = applicationNo
	draft.Step = step
	draft.Pending = false
	draft.PendingSince = time.Time{}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return &StepResult{Valid: true, Navigation: &Navigation{
		Step:          step,
		URL:           wizard.URL(step, applicationNo),
		ApplicationNo: applicationNo,
	}}, nil
}

func (s *wizardService) Prev(ctx context.Context, userID uuid.UUID, step int) (*Navigation, error) {
	target := step - 1
	if target < 1 {
		target = 1
	}
	if target > s.flow.Len() {
		target = s.flow.Len()
	}

	draft, err := s.drafts.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	draft.Step = target
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return &Navigation{
		Step:          target,
		URL:           wizard.URL(target, draft.ApplicationNo),
		ApplicationNo: draft.ApplicationNo,
	}, nil
}

func (s *wizardService) Submit(ctx context.Context, userID uuid.UUID, fields domain.FormData) (*StepResult, error) {
	return s.Next(ctx, userID, s.flow.Len(), fields)
}

func (s *wizardService) CheckLikelihood(ctx context.Context, userID uuid.UUID) (*LikelihoodResult, error) {
	draft, err := s.drafts.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	ids := draft.Form.List(wizard.FieldAbstract)
	if len(ids) != 1 {
		return nil, domain.ErrLikelihoodUnavailable
	}
	fileID, err := uuid.Parse(ids[0])
	if err != nil {
		return nil, domain.ErrLikelihoodUnavailable
	}
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLikelihoodUnavailable
		}
		return nil, err
	}
	if meta.OwnerID != userID || meta.Status != domain.FileStatusUploaded || meta.Category != domain.CategoryAbstract {
		return nil, domain.ErrLikelihoodUnavailable
	}
	if meta.ApplicationNo != nil && *meta.ApplicationNo != draft.ApplicationNo {
		return nil, domain.ErrLikelihoodUnavailable
	}

	content, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("reading abstract: %w", err)
	}

	rate, err := s.scorer.Score(ctx, port.ScoreInput{
		ApplicationNo: draft.ApplicationNo,
		Title:         draft.Form.String(wizard.FieldTitle),
		FileName:      meta.OriginalName,
		ContentType:   meta.ContentType,
		Content:       content,
	})
	if err != nil {
		zap.L().Error("likelihood scoring failed", zap.String("file_id", fileID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrScoringFailed, err)
	}

	checkedAt := time.Now().UTC()
	// The draft may have changed while scoring.
	draft, err = s.drafts.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if current := draft.Form.List(wizard.FieldAbstract); len(current) != 1 || current[0] != ids[0] {
		return nil, domain.ErrLikelihoodUnavailable
	}
	draft.Form[wizard.FieldLikelihood] = true
	draft.Form[wizard.FieldLikelihoodRate] = rate
	draft.Form[wizard.FieldLikelihoodFile] = ids[0]
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	if draft.ApplicationNo != "" {
		if err := s.apps.RecordLikelihood(ctx, userID, draft.ApplicationNo, rate); err != nil {
			return nil, fmt.Errorf("recording likelihood: %w", err)
		}
	}
	return &LikelihoodResult{Rate: rate, CheckedAt: checkedAt}, nil
}

func (s *wizardService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.drafts.Clear(ctx, userID.String())
}

func (s *wizardService) paymentURL(applicationNo string) string {
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(s.cfg.ApplicationFee, 10))
	q.Set("applicationNo", applicationNo)
	return "/payment/confirm?" + q.Encode()
}

// clientFields drops the keys only the server may write.
func clientFields(fields domain.FormData) domain.FormData {
	clean := fields.Clone()
	for _, key := range wizard.LikelihoodFields {
		delete(clean, key)
	}
	return clean
}

// dropStaleLikelihood forgets a likelihood result once the abstract it scored
// is no longer the form's only abstract.
func dropStaleLikelihood(form domain.FormData) {
	if wizard.LikelihoodCurrent(form) {
		return
	}
	for _, key := range wizard.LikelihoodFields {
		delete(form, key)
	}
}

func stripSensitive(form domain.FormData) {
	for _, key := range sensitiveFields {
		delete(form, key)
	}
}
