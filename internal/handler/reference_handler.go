package handler

import (
	"github.com/gin-gonic/gin"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

// ReferenceHandler serves the lookup lists the wizard dropdowns use.
type ReferenceHandler struct {
	refService service.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refService: refService}
}

// List handles GET /api/v1/reference/:kind
// @Summary List reference items
// @Tags reference
// @Produce json
// @Param kind path string true "Reference list" Enums(country, gender, application_type, patent_classification, feedback_category, rejection_category)
// @Success 200 {object} Response{data=[]domain.ReferenceItem} "Items"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Unknown reference list"
// @Security BearerAuth
// @Router /reference/{kind} [get]
func (h *ReferenceHandler) List(c *gin.Context) {
	items, err := h.refService.List(c.Request.Context(), domain.ReferenceKind(c.Param("kind")))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, items)
}

// States handles GET /api/v1/reference/states/:country
// @Summary List states of a country
// @Tags reference
// @Produce json
// @Param country path string true "Country code" example(TR)
// @Success 200 {object} Response{data=[]domain.ReferenceItem} "States"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reference/states/{country} [get]
func (h *ReferenceHandler) States(c *gin.Context) {
	items, err := h.refService.ListStates(c.Request.Context(), c.Param("country"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, items)
}
