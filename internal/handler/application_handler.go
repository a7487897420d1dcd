package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patentdesk/internal/service"
)

// ApplicationHandler handles applicant-side application endpoints and the
// public patent views.
type ApplicationHandler struct {
	appService service.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// List handles GET /api/v1/applications
// @Summary List my applications
// @Description List the signed-in applicant's applications, newest first
// @Tags applications
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Application,meta=PagMeta} "Applications"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	apps, total, err := h.appService.ListMine(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, apps, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByNo handles GET /api/v1/applications/:no
// @Summary Get an application
// @Tags applications
// @Produce json
// @Param no path string true "Application number" example(PA-2026-000001)
// @Success 200 {object} Response{data=domain.Application} "Application"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{no} [get]
func (h *ApplicationHandler) GetByNo(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	app, err := h.appService.Get(c.Request.Context(), userID, c.Param("no"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, app)
}

// Cancel handles POST /api/v1/applications/:no/cancel
// @Summary Cancel an application
// @Tags applications
// @Produce json
// @Param no path string true "Application number"
// @Success 200 {object} Response{data=domain.Application} "Cancelled"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Application can no longer be cancelled"
// @Security BearerAuth
// @Router /applications/{no}/cancel [post]
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	app, err := h.appService.Cancel(c.Request.Context(), userID, c.Param("no"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, app)
}

// PaymentSuccess handles POST /api/v1/applications/:no/payment-success
// @Summary Record a completed payment
// @Description Called after the external payment page succeeds. Moves the application from draft to submitted.
// @Tags applications
// @Accept json
// @Produce json
// @Param no path string true "Application number"
// @Param request body PaymentSuccessRequest true "Payment result"
// @Success 200 {object} Response{data=domain.Application} "Application submitted"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Application is not awaiting payment"
// @Failure 422 {object} ErrorResponseBody "Amount does not match the fee"
// @Security BearerAuth
// @Router /applications/{no}/payment-success [post]
func (h *ApplicationHandler) PaymentSuccess(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.PaymentSuccessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	app, err := h.appService.RecordPaymentSuccess(c.Request.Context(), userID, c.Param("no"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, app)
}

// Feedback handles GET /api/v1/applications/:no/feedback
// @Summary List reviewer feedback
// @Tags applications
// @Produce json
// @Param no path string true "Application number"
// @Success 200 {object} Response{data=[]domain.Feedback} "Feedback"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{no}/feedback [get]
func (h *ApplicationHandler) Feedback(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	items, err := h.appService.ListFeedback(c.Request.Context(), userID, c.Param("no"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, items)
}

// Patent handles GET /api/v1/patents/:no
// @Summary Get an approved patent
// @Tags patents
// @Produce json
// @Param no path string true "Application number"
// @Success 200 {object} Response{data=domain.Application} "Patent"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "No approved patent with this number"
// @Security BearerAuth
// @Router /patents/{no} [get]
func (h *ApplicationHandler) Patent(c *gin.Context) {
	app, err := h.appService.PatentDetail(c.Request.Context(), c.Param("no"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, app)
}

// Similar handles GET /api/v1/patents/similar
// @Summary List similar patents
// @Description Approved patents that share the given classification
// @Tags patents
// @Produce json
// @Param classification_id query string true "Patent classification code"
// @Success 200 {object} Response{data=[]domain.Application} "Patents"
// @Failure 400 {object} ErrorResponseBody "Missing classification"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /patents/similar [get]
func (h *ApplicationHandler) Similar(c *gin.Context) {
	classificationID := c.Query("classification_id")
	if classificationID == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "classification_id is required")
		return
	}

	apps, err := h.appService.Similar(c.Request.Context(), classificationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, apps)
}
