package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/handler"
	"patentdesk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newContext builds a test context for a signed-in user. A nil userID leaves
// the auth context unset.
func newContext(method, path string, body io.Reader, userID *uuid.UUID, role domain.UserRole) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == nil {
		body = http.NoBody
	}
	c.Request, _ = http.NewRequest(method, path, body)
	if userID != nil {
		c.Set(middleware.ContextKeyUserID, *userID)
		c.Set(middleware.ContextKeyRole, string(role))
	}
	return c, w
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
