package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"patentdesk/internal/csvexport"
	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// AdminHandler handles reviewer endpoints for submitted applications.
type AdminHandler struct {
	reviewService service.ReviewService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reviewService service.ReviewService) *AdminHandler {
	return &AdminHandler{reviewService: reviewService}
}

// List handles GET /api/v1/admin/applications
// @Summary List applications for review
// @Description List non-draft applications, optionally filtered by status (admin only)
// @Tags admin
// @Produce json
// @Param status query string false "Status filter" Enums(submitted, feedback_requested, approved, rejected, cancelled)
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Application,meta=PagMeta} "Applications"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *AdminHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	status := domain.ApplicationStatus(c.Query("status"))

	apps, total, err := h.reviewService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, apps, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Summary handles GET /api/v1/admin/applications/:no
// @Summary Review summary
// @Description Application details with documents grouped by category and feedback history (admin only)
// @Tags admin
// @Produce json
// @Param no path string true "Application number"
// @Success 200 {object} Response{data=domain.ApplicationSummary} "Summary"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /admin/applications/{no} [get]
func (h *AdminHandler) Summary(c *gin.Context) {
	summary, err := h.reviewService.Summary(c.Request.Context(), c.Param("no"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Approve handles POST /api/v1/admin/applications/:no/approve
// @Summary Approve an application
// @Tags admin
// @Accept json
// @Produce json
// @Param no path string true "Application number"
// @Param request body DecisionRequest false "Optional note to the applicant"
// @Success 200 {object} Response{data=domain.Application} "Approved"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Application is not under review"
// @Security BearerAuth
// @Router /admin/applications/{no}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	h.decide(c, h.reviewService.Approve)
}

// Reject handles POST /api/v1/admin/applications/:no/reject
// @Summary Reject an application
// @Description Reject with a rejection category and a reason, both required
// @Tags admin
// @Accept json
// @Produce json
// @Param no path string true "Application number"
// @Param request body DecisionRequest true "Rejection category and reason"
// @Success 200 {object} Response{data=domain.Application} "Rejected"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Application is not under review"
// @Failure 422 {object} ErrorResponseBody "Category or reason missing"
// @Security BearerAuth
// @Router /admin/applications/{no}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	h.decide(c, h.reviewService.Reject)
}

// RequestFeedback handles POST /api/v1/admin/applications/:no/feedback
// @Summary Request changes from the applicant
// @Tags admin
// @Accept json
// @Produce json
// @Param no path string true "Application number"
// @Param request body DecisionRequest true "Feedback category and message"
// @Success 201 {object} Response{data=domain.Feedback} "Feedback recorded"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Application is not under review"
// @Security BearerAuth
// @Router /admin/applications/{no}/feedback [post]
func (h *AdminHandler) RequestFeedback(c *gin.Context) {
	adminID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	fb, err := h.reviewService.RequestFeedback(c.Request.Context(), adminID, c.Param("no"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, fb)
}

// Export handles GET /api/v1/admin/applications/export
// @Summary Export applications as CSV
// @Description Download non-draft applications, optionally filtered by status (admin only)
// @Tags admin
// @Produce text/csv
// @Param status query string false "Status filter"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /admin/applications/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	status := domain.ApplicationStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		HandleError(c, domain.ErrInvalidStatus)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(string(status))))
	c.Status(http.StatusOK)

	if err := h.reviewService.Export(c.Request.Context(), status, c.Writer); err != nil {
		// Headers are already out; the client sees a truncated file.
		zap.L().Error("exporting applications", zap.String("status", string(status)), zap.Error(err))
		_ = c.Error(err)
	}
}

func (h *AdminHandler) decide(
	c *gin.Context,
	apply func(ctx context.Context, adminID uuid.UUID, applicationNo string, input service.DecisionInput) (*domain.Application, error),
) {
	adminID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	app, err := apply(c.Request.Context(), adminID, c.Param("no"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, app)
}
