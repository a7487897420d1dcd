package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubmitHandler echoes submitted JSON. It stands in for a persistence
// endpoint the portal posts raw form snapshots to.
type SubmitHandler struct{}

// NewSubmitHandler creates a new SubmitHandler.
func NewSubmitHandler() *SubmitHandler {
	return &SubmitHandler{}
}

// Echo handles POST /api/submit
// @Summary Echo a submission
// @Description Accepts any JSON value and returns it unchanged
// @Tags submit
// @Accept json
// @Produce json
// @Param request body object true "Any JSON"
// @Success 200 {object} Response "Echoed payload"
// @Failure 400 {object} ErrorResponseBody "Body is not JSON"
// @Router /submit [post]
func (h *SubmitHandler) Echo(c *gin.Context) {
	var payload interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "body must be valid JSON")
		return
	}

	RespondOK(c, payload)
}
