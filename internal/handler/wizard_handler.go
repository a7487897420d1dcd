package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// WizardHandler handles the multi-step application wizard endpoints.
type WizardHandler struct {
	wizardService service.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizardService service.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

// Draft handles GET /api/v1/wizard/draft
// @Summary Restore wizard draft
// @Description Return the signed-in user's draft. A user without a draft gets an empty one at step 1.
// @Tags wizard
// @Produce json
// @Success 200 {object} Response{data=domain.Draft} "Current draft"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /wizard/draft [get]
func (h *WizardHandler) Draft(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	draft, err := h.wizardService.Restore(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// UpdateDraft handles PATCH /api/v1/wizard/draft
// @Summary Update wizard draft
// @Description Merge changed fields into the draft form. Keys are overwritten, never removed.
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body WizardFieldsRequest true "Changed fields"
// @Success 200 {object} Response{data=domain.Draft} "Updated draft"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /wizard/draft [patch]
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	fields, ok := bindFields(c)
	if !ok {
		return
	}

	draft, err := h.wizardService.Update(c.Request.Context(), userID, fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// Next handles POST /api/v1/wizard/steps/:n/next
// @Summary Advance the wizard
// @Description Merge fields, validate step n and commit its stage. Returns 422 with field errors when validation fails
// @Description and 202 while the application number created by step 1 is still pending.
// @Tags wizard
// @Accept json
// @Produce json
// @Param n path int true "Step number (1-7)"
// @Param request body WizardFieldsRequest false "Fields of the step"
// @Success 200 {object} Response{data=service.StepResult} "Advanced"
// @Success 202 {object} Response{data=service.StepResult} "Application number pending"
// @Failure 400 {object} ErrorResponseBody "Invalid step"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Application not started"
// @Failure 422 {object} Response{data=service.StepResult} "Validation failed"
// @Security BearerAuth
// @Router /wizard/steps/{n}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	step, ok := parseStep(c)
	if !ok {
		return
	}

	fields, ok := bindFields(c)
	if !ok {
		return
	}

	result, err := h.wizardService.Next(c.Request.Context(), userID, step, fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondStep(c, result)
}

// Prev handles POST /api/v1/wizard/steps/:n/prev
// @Summary Go back one step
// @Description Move to the previous step without validation. Never goes below step 1.
// @Tags wizard
// @Produce json
// @Param n path int true "Current step number"
// @Success 200 {object} Response{data=service.Navigation} "Navigation"
// @Failure 400 {object} ErrorResponseBody "Invalid step"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /wizard/steps/{n}/prev [post]
func (h *WizardHandler) Prev(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	step, ok := parseStep(c)
	if !ok {
		return
	}

	nav, err := h.wizardService.Prev(c.Request.Context(), userID, step)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, nav)
}

// Submit handles POST /api/v1/wizard/submit
// @Summary Submit the application
// @Description Validate the payment step and return the payment confirmation URL
// @Tags wizard
// @Accept json
// @Produce json
// @Param request body WizardFieldsRequest false "Payment fields"
// @Success 200 {object} Response{data=service.StepResult} "Payment URL in navigation.url"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 409 {object} ErrorResponseBody "Application not started"
// @Failure 422 {object} Response{data=service.StepResult} "Validation failed"
// @Security BearerAuth
// @Router /wizard/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	fields, ok := bindFields(c)
	if !ok {
		return
	}

	result, err := h.wizardService.Submit(c.Request.Context(), userID, fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondStep(c, result)
}

// Likelihood handles POST /api/v1/wizard/likelihood
// @Summary Run the likelihood check
// @Description Score the uploaded abstract and store the rate in the draft
// @Tags wizard
// @Produce json
// @Success 200 {object} Response{data=service.LikelihoodResult} "Likelihood rate"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 422 {object} ErrorResponseBody "Abstract missing"
// @Failure 502 {object} ErrorResponseBody "Scoring failed"
// @Security BearerAuth
// @Router /wizard/likelihood [post]
func (h *WizardHandler) Likelihood(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	result, err := h.wizardService.CheckLikelihood(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Logout handles DELETE /api/v1/wizard/draft
// @Summary Discard wizard draft
// @Description Clear the session draft. Clients call this on logout.
// @Tags wizard
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Draft cleared"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /wizard/draft [delete]
func (h *WizardHandler) Logout(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.wizardService.Logout(c.Request.Context(), userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "draft cleared"})
}

func parseStep(c *gin.Context) (int, bool) {
	step, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_STEP", "step must be a number")
		return 0, false
	}
	return step, true
}

// bindFields reads an optional {"fields": {...}} body.
func bindFields(c *gin.Context) (domain.FormData, bool) {
	var req WizardFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return nil, false
	}
	if req.Fields == nil {
		req.Fields = domain.FormData{}
	}
	return req.Fields, true
}

func respondStep(c *gin.Context, result *service.StepResult) {
	switch {
	case !result.Valid:
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Data:    result,
			Error:   &APIError{Code: "VALIDATION_FAILED", Message: "step validation failed"},
		})
	case result.Navigation != nil && result.Navigation.Pending:
		c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: result})
	default:
		RespondOK(c, result)
	}
}
