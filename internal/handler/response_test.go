package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"patentdesk/internal/domain"
	"patentdesk/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrApplicationNotFound, http.StatusNotFound, "APPLICATION_NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrApplicationNoPending, http.StatusAccepted, "APPLICATION_NO_PENDING"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{fmt.Errorf("%w: bad id", domain.ErrStepValidation), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{domain.ErrPaymentAmountMismatch, http.StatusUnprocessableEntity, "PAYMENT_AMOUNT_MISMATCH"},
		{fmt.Errorf("%w: timeout", domain.ErrScoringFailed), http.StatusBadGateway, "SCORING_FAILED"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondError_UnauthorizedCarriesLoginPath(t *testing.T) {
	c, w := newContext(http.MethodGet, "/api/v1/wizard/draft", nil, nil, "")

	handler.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")

	resp := decode(t, w)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, handler.LoginPath, resp.Error.RedirectTo)

	c, w = newContext(http.MethodGet, "/", nil, nil, "")
	handler.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "bad")
	assert.Empty(t, decode(t, w).Error.RedirectTo)
}
