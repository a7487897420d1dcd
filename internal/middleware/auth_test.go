package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/middleware"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code       string `json:"code"`
		RedirectTo string `json:"redirect_to"`
	} `json:"error"`
}

func newAuthRouter(authSvc service.AuthService, roles ...domain.UserRole) *gin.Engine {
	r := gin.New()
	group := r.Group("/", middleware.AuthMiddleware(authSvc, "/login"))
	if len(roles) > 0 {
		group.Use(middleware.RequireRole(roles...))
	}
	group.GET("/me", func(c *gin.Context) {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID.String())
	})
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	r := newAuthRouter(mockAuth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "/login", body.Error.RedirectTo)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "expired").Return(nil, domain.ErrUnauthorized)
	r := newAuthRouter(mockAuth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InjectsUser(t *testing.T) {
	userID := uuid.New()
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "good").Return(&service.Claims{UserID: userID, Role: domain.RoleApplicant}, nil)
	r := newAuthRouter(mockAuth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestRequireRole(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "applicant").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleApplicant}, nil)
	mockAuth.On("ValidateToken", "admin").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}, nil)
	r := newAuthRouter(mockAuth, domain.RoleAdmin)

	for token, want := range map[string]int{"applicant": http.StatusForbidden, "admin": http.StatusOK} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}
