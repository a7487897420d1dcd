package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/service"
	"patentdesk/internal/wizard"
	"patentdesk/mocks"
)

type applicationFixture struct {
	svc      service.ApplicationService
	apps     *mocks.MockApplicationRepo
	files    *mocks.MockFileMetaRepo
	feedback *mocks.MockFeedbackRepo
	users    *mocks.MockUserRepo
	email    *mocks.MockEmailSender
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		apps:     new(mocks.MockApplicationRepo),
		files:    new(mocks.MockFileMetaRepo),
		feedback: new(mocks.MockFeedbackRepo),
		users:    new(mocks.MockUserRepo),
		email:    new(mocks.MockEmailSender),
	}
	f.svc = service.NewApplicationService(f.apps, f.files, f.feedback, f.users, f.email,
		config.WizardConfig{ApplicationFee: 1500, Currency: "TRY"})
	return f
}

func draftApp(owner uuid.UUID, no string, stage int) *domain.Application {
	return &domain.Application{
		ID:            uuid.New(),
		ApplicationNo: no,
		ApplicantID:   owner,
		Status:        domain.StatusDraft,
		CurrentStage:  stage,
	}
}

func TestApplication_Create(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	f.apps.On("Create", mock.Anything, mock.MatchedBy(func(app *domain.Application) bool {
		return app.Status == domain.StatusDraft && app.CurrentStage == 1 && app.ApplicantID == owner
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Application).ApplicationNo = "PA-2026-000020"
	}).Return(nil)

	app, err := f.svc.Create(context.Background(), owner, domain.FormData{wizard.FieldFirstName: "Ayse"})

	require.NoError(t, err)
	assert.Equal(t, "PA-2026-000020", app.ApplicationNo)
	assert.Equal(t, "Ayse", app.Form().String(wizard.FieldFirstName))
}

func TestApplication_UpdateStage_Invention(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000021", 1)
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.apps.On("UpdateStage", mock.Anything, app).Return(nil)

	got, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 2, domain.FormData{
		wizard.FieldTitle:     "Self-heating mug",
		wizard.FieldAppTypeID: "utility",
		wizard.FieldClassID:   "A47G",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStage)
	assert.Equal(t, "Self-heating mug", got.Title)
	assert.Equal(t, "A47G", got.ClassificationID)
}

func TestApplication_UpdateStage_AttachesDocuments(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000022", 2)
	claims, abstract := uuid.New(), uuid.New()
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.files.On("AttachToApplication", mock.Anything, owner, app.ApplicationNo, domain.CategoryClaims, []uuid.UUID{claims}).Return(nil)
	f.files.On("AttachToApplication", mock.Anything, owner, app.ApplicationNo, domain.CategoryAbstract, []uuid.UUID{abstract}).Return(nil)
	f.apps.On("UpdateStage", mock.Anything, app).Return(nil)

	_, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 3, domain.FormData{
		wizard.FieldClaims:   []any{claims.String()},
		wizard.FieldAbstract: []any{map[string]any{"id": abstract.String()}},
	})

	require.NoError(t, err)
	f.files.AssertExpectations(t)
	f.files.AssertNumberOfCalls(t, "AttachToApplication", 2)
}

func TestApplication_UpdateStage_RejectsFileFromOtherCategory(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000025", 2)
	drawing := uuid.New()
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	// The repository matches on category, so a drawing listed as an abstract updates nothing.
	f.files.On("AttachToApplication", mock.Anything, owner, app.ApplicationNo, domain.CategoryAbstract, []uuid.UUID{drawing}).
		Return(domain.ErrNotFound)

	_, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 3, domain.FormData{
		wizard.FieldAbstract: []any{drawing.String()},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "attaching abstract documents")
	f.apps.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything)
}

func TestApplication_UpdateStage_RejectsBadFileID(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000023", 2)
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

	_, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 3, domain.FormData{
		wizard.FieldClaims: []any{"not-a-uuid"},
	})

	assert.ErrorIs(t, err, domain.ErrStepValidation)
	f.apps.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything)
}

func TestApplication_UpdateStage_PaymentKeepsOnlyLast4(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000024", 6)
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.apps.On("UpdateStage", mock.Anything, app).Return(nil)

	got, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 7, domain.FormData{
		wizard.FieldCardHolder:  "AYSE YILMAZ",
		wizard.FieldCardNumber:  "4111 1111 1111 1234",
		wizard.FieldCVV:         "123",
		wizard.FieldExpiryMonth: "09",
		wizard.FieldExpiryYear:  "2029",
	})

	require.NoError(t, err)
	assert.Equal(t, "1234", got.CardLast4)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(got.FormData, &stored))
	assert.Equal(t, "AYSE YILMAZ", stored[wizard.FieldCardHolder])
	assert.NotContains(t, stored, wizard.FieldCardNumber)
	assert.NotContains(t, stored, wizard.FieldCVV)
}

func TestApplication_UpdateStage_OwnershipAndStatus(t *testing.T) {
	owner := uuid.New()

	t.Run("other applicant", func(t *testing.T) {
		f := newApplicationFixture()
		app := draftApp(uuid.New(), "PA-2026-000025", 2)
		f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

		_, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 3, nil)
		assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
	})

	t.Run("already submitted", func(t *testing.T) {
		f := newApplicationFixture()
		app := draftApp(owner, "PA-2026-000026", 7)
		app.Status = domain.StatusSubmitted
		f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

		_, err := f.svc.UpdateStage(context.Background(), owner, app.ApplicationNo, 7, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("missing number", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.svc.UpdateStage(context.Background(), owner, "", 2, nil)
		assert.ErrorIs(t, err, domain.ErrApplicationNotStarted)
	})
}

func TestApplication_RecordPaymentSuccess(t *testing.T) {
	owner := uuid.New()

	t.Run("amount mismatch", func(t *testing.T) {
		f := newApplicationFixture()
		app := draftApp(owner, "PA-2026-000027", 7)
		f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

		_, err := f.svc.RecordPaymentSuccess(context.Background(), owner, app.ApplicationNo,
			service.PaymentSuccessInput{TransactionID: "tx-1", Amount: 999})

		assert.ErrorIs(t, err, domain.ErrPaymentAmountMismatch)
		f.apps.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("payment step not reached", func(t *testing.T) {
		f := newApplicationFixture()
		app := draftApp(owner, "PA-2026-000028", 5)
		f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)

		_, err := f.svc.RecordPaymentSuccess(context.Background(), owner, app.ApplicationNo,
			service.PaymentSuccessInput{TransactionID: "tx-2", Amount: 1500})

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("submits and sends receipt", func(t *testing.T) {
		f := newApplicationFixture()
		app := draftApp(owner, "PA-2026-000029", 7)
		f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
		f.apps.On("RecordPayment", mock.Anything, app.ApplicationNo, int64(1500), "tx-3", mock.AnythingOfType("time.Time")).Return(nil)
		f.users.On("GetByID", mock.Anything, owner).Return(&domain.User{Email: "ayse@example.com", FullName: "Ayse"}, nil)
		f.email.On("SendSubmissionReceipt", mock.Anything, "ayse@example.com", "Ayse", app.ApplicationNo, int64(1500), "TRY").Return(nil)

		got, err := f.svc.RecordPaymentSuccess(context.Background(), owner, app.ApplicationNo,
			service.PaymentSuccessInput{TransactionID: "tx-3", Amount: 1500})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, got.Status)
		assert.Equal(t, "tx-3", got.PaymentReference)
		f.email.AssertExpectations(t)
	})
}

func TestApplication_PatentDetail(t *testing.T) {
	f := newApplicationFixture()
	approved := &domain.Application{
		ApplicationNo: "PA-2026-000030",
		ApplicantID:   uuid.New(),
		Status:        domain.StatusApproved,
		Signature:     "Ayse Yilmaz",
		CardLast4:     "1234",
		FormData:      json.RawMessage(`{"national_id":"12345678901"}`),
	}
	pending := &domain.Application{ApplicationNo: "PA-2026-000031", Status: domain.StatusSubmitted}
	f.apps.On("GetByNo", mock.Anything, approved.ApplicationNo).Return(approved, nil)
	f.apps.On("GetByNo", mock.Anything, pending.ApplicationNo).Return(pending, nil)

	got, err := f.svc.PatentDetail(context.Background(), approved.ApplicationNo)
	require.NoError(t, err)
	assert.Empty(t, got.Signature)
	assert.Empty(t, got.CardLast4)
	assert.Nil(t, got.FormData)
	assert.Equal(t, uuid.Nil, got.ApplicantID)
	assert.Equal(t, "Ayse Yilmaz", approved.Signature)

	_, err = f.svc.PatentDetail(context.Background(), pending.ApplicationNo)
	assert.ErrorIs(t, err, domain.ErrApplicationNotApproved)
}

func TestApplication_Cancel(t *testing.T) {
	f := newApplicationFixture()
	owner := uuid.New()
	app := draftApp(owner, "PA-2026-000032", 3)
	f.apps.On("GetByNo", mock.Anything, app.ApplicationNo).Return(app, nil)
	f.apps.On("UpdateDecision", mock.Anything, app).Return(nil)

	got, err := f.svc.Cancel(context.Background(), owner, app.ApplicationNo)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	_, err = f.svc.Cancel(context.Background(), owner, app.ApplicationNo)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
