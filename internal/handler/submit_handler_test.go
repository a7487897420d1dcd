package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"patentdesk/internal/handler"
)

func TestSubmitHandler_Echo(t *testing.T) {
	h := handler.NewSubmitHandler()

	c, w := newContext(http.MethodPost, "/api/submit",
		strings.NewReader(`{"title":"Widget","claims":["c1"],"rate":42}`), nil, "")
	c.Request.Header.Set("Content-Type", "application/json")

	h.Echo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{
		"title":  "Widget",
		"claims": []interface{}{"c1"},
		"rate":   float64(42),
	}, resp.Data)
}

func TestSubmitHandler_Echo_InvalidJSON(t *testing.T) {
	h := handler.NewSubmitHandler()

	c, w := newContext(http.MethodPost, "/api/submit", strings.NewReader(`{"title":`), nil, "")
	c.Request.Header.Set("Content-Type", "application/json")

	h.Echo(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}
