package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/port"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

type reviewFixture struct {
	svc      service.ReviewService
	apps     *mocks.MockApplicationRepo
	files    *mocks.MockFileMetaRepo
	feedback *mocks.MockFeedbackRepo
	users    *mocks.MockUserRepo
	email    *mocks.MockEmailSender
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		apps:     new(mocks.MockApplicationRepo),
		files:    new(mocks.MockFileMetaRepo),
		feedback: new(mocks.MockFeedbackRepo),
		users:    new(mocks.MockUserRepo),
		email:    new(mocks.MockEmailSender),
	}
	f.svc = service.NewReviewService(f.apps, f.files, f.feedback, f.users, f.email)
	return f
}

func submittedApp(no string) *domain.Application {
	return &domain.Application{
		ID:            uuid.New(),
		ApplicationNo: no,
		ApplicantID:   uuid.New(),
		Status:        domain.StatusSubmitted,
		CurrentStage:  7,
	}
}

func TestReview_Approve(t *testing.T) {
	f := newReviewFixture()
	adminID := uuid.New()
	app := submittedApp("PA-2026-000010")
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.apps.On("UpdateDecision", mock.Anything, mock.MatchedBy(func(a *domain.Application) bool {
		return a.Status == domain.StatusApproved && a.ReviewedBy != nil && *a.ReviewedBy == adminID
	})).Return(nil)
	f.users.On("GetByID", mock.Anything, app.ApplicantID).
		Return(&domain.User{Email: "ayse@example.com", FullName: "Ayse Yilmaz"}, nil)
	f.email.On("SendDecisionEmail", mock.Anything, port.DecisionEmail{
		ToEmail:       "ayse@example.com",
		ToName:        "Ayse Yilmaz",
		ApplicationNo: app.ApplicationNo,
		Decision:      "approved",
		Message:       "Granted.",
	}).Return(nil)

	got, err := f.svc.Approve(context.Background(), adminID, app.ApplicationNo, service.DecisionInput{Message: "Granted."})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.NotNil(t, got.ReviewedAt)
	f.apps.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestReview_EmailFailureDoesNotFailDecision(t *testing.T) {
	f := newReviewFixture()
	app := submittedApp("PA-2026-000011")
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.apps.On("UpdateDecision", mock.Anything, mock.Anything).Return(nil)
	f.users.On("GetByID", mock.Anything, app.ApplicantID).Return(&domain.User{Email: "a@b.co"}, nil)
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := f.svc.Approve(context.Background(), uuid.New(), app.ApplicationNo, service.DecisionInput{})

	assert.NoError(t, err)
}

func TestReview_RejectRequiresCategoryAndReason(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Reject(context.Background(), uuid.New(), "PA-2026-000012", service.DecisionInput{Message: "Prior art"})

	assert.ErrorIs(t, err, domain.ErrStepValidation)
	f.apps.AssertNotCalled(t, "GetByNo", mock.Anything, mock.Anything)
}

func TestReview_DecisionOnTerminalApplication(t *testing.T) {
	f := newReviewFixture()
	app := submittedApp("PA-2026-000013")
	app.Status = domain.StatusApproved
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

	_, err := f.svc.Reject(context.Background(), uuid.New(), app.ApplicationNo, service.DecisionInput{
		CategoryID: "prior_art",
		Message:    "Anticipated by EP1234567",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.apps.AssertNotCalled(t, "UpdateDecision", mock.Anything, mock.Anything)
}

func TestReview_RequestFeedback(t *testing.T) {
	f := newReviewFixture()
	adminID := uuid.New()
	app := submittedApp("PA-2026-000014")
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.feedback.On("Create", mock.Anything, mock.MatchedBy(func(fb *domain.Feedback) bool {
		return fb.ApplicationNo == app.ApplicationNo && fb.AdminID == adminID
	})).Return(nil)
	f.apps.On("UpdateDecision", mock.Anything, mock.Anything).Return(nil).Once()
	f.users.On("GetByID", mock.Anything, app.ApplicantID).Return(nil, domain.ErrNotFound)

	fb, err := f.svc.RequestFeedback(context.Background(), adminID, app.ApplicationNo, service.DecisionInput{
		CategoryID: "drawings",
		Message:    "Drawing 2 is illegible",
	})
	require.NoError(t, err)
	assert.Equal(t, "drawings", fb.CategoryID)
	assert.Equal(t, domain.StatusFeedbackRequested, app.Status)

	// A follow-up note keeps the status and only records feedback.
	_, err = f.svc.RequestFeedback(context.Background(), adminID, app.ApplicationNo, service.DecisionInput{Message: "Also claim 3"})
	require.NoError(t, err)
	f.feedback.AssertNumberOfCalls(t, "Create", 2)
	f.apps.AssertNumberOfCalls(t, "UpdateDecision", 1)
}

func TestReview_Summary_GroupsDocuments(t *testing.T) {
	f := newReviewFixture()
	app := submittedApp("PA-2026-000015")
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.files.On("ListByApplication", mock.Anything, app.ApplicationNo).Return([]domain.FileMeta{
		{ID: uuid.New(), Category: domain.CategoryClaims},
		{ID: uuid.New(), Category: domain.CategoryClaims},
		{ID: uuid.New(), Category: domain.CategoryAbstract},
	}, nil)
	f.feedback.On("ListByApplication", mock.Anything, app.ApplicationNo).Return(nil, nil)

	summary, err := f.svc.Summary(context.Background(), app.ApplicationNo)

	require.NoError(t, err)
	assert.Len(t, summary.Documents[domain.CategoryClaims], 2)
	assert.Len(t, summary.Documents[domain.CategoryAbstract], 1)
	assert.NotNil(t, summary.Documents[domain.CategorySupporting])
	assert.NotNil(t, summary.Feedback)
}

func TestReview_Export(t *testing.T) {
	f := newReviewFixture()
	f.apps.On("ListByStatus", mock.Anything, domain.StatusSubmitted, 0, 500).
		Return([]domain.Application{*submittedApp("PA-2026-000016")}, 1, nil)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(context.Background(), domain.StatusSubmitted, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Application No,Status"))
	assert.True(t, strings.HasPrefix(lines[1], "PA-2026-000016,submitted"))
}

func TestReview_ListRejectsUnknownStatus(t *testing.T) {
	f := newReviewFixture()

	_, _, err := f.svc.List(context.Background(), "archived", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	var buf bytes.Buffer
	assert.ErrorIs(t, f.svc.Export(context.Background(), "archived", &buf), domain.ErrInvalidStatus)
	assert.Zero(t, buf.Len())
}
