package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"patentdesk/internal/domain"
	"patentdesk/internal/middleware"
)

// LoginPath is sent as error.redirect_to on every 401 response.
var LoginPath = "/login"

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	apiErr := &APIError{Code: code, Message: msg}
	if status == http.StatusUnauthorized {
		apiErr.RedirectTo = LoginPath
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "APPLICATION_NOT_FOUND", "application not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "file storage request failed"
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "INVALID_CATEGORY", "invalid document category; allowed: claims, abstract, drawings, supporting"
	case errors.Is(err, domain.ErrFailedUploadNotFound):
		return http.StatusNotFound, "FAILED_UPLOAD_NOT_FOUND", "no failed upload matches the correlation id"
	case errors.Is(err, domain.ErrApplicationNotStarted):
		return http.StatusConflict, "APPLICATION_NOT_STARTED", "complete step 1 before continuing"
	case errors.Is(err, domain.ErrApplicationNoPending):
		return http.StatusAccepted, "APPLICATION_NO_PENDING", "application number is not available yet"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "application status does not allow this action"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid application status"
	case errors.Is(err, domain.ErrStepValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error()
	case errors.Is(err, domain.ErrInvalidStep):
		return http.StatusBadRequest, "INVALID_STEP", "invalid wizard step"
	case errors.Is(err, domain.ErrLikelihoodUnavailable):
		return http.StatusUnprocessableEntity, "LIKELIHOOD_UNAVAILABLE", "upload exactly one abstract document before running the likelihood check"
	case errors.Is(err, domain.ErrScoringFailed):
		return http.StatusBadGateway, "SCORING_FAILED", "likelihood scoring failed"
	case errors.Is(err, domain.ErrInvalidReferenceKind):
		return http.StatusNotFound, "INVALID_REFERENCE_KIND", "unknown reference list"
	case errors.Is(err, domain.ErrPaymentAmountMismatch):
		return http.StatusUnprocessableEntity, "PAYMENT_AMOUNT_MISMATCH", "payment amount does not match application fee"
	case errors.Is(err, domain.ErrApplicationNotApproved):
		return http.StatusNotFound, "PATENT_NOT_FOUND", "no approved patent with this number"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts the user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	return userID, domain.UserRole(middleware.GetRole(c)), true
}

// parsePagination reads offset and limit query parameters, capping limit at 100.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		zap.L().Error("internal error", zap.Any("request_id", requestID), zap.Error(err))
		_ = c.Error(err)
	}
	RespondError(c, status, code, msg)
}
