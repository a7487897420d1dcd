package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "patentdesk-test",
	}
}

func hashedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "ayse@example.com",
		PasswordHash: string(hash),
		FullName:     "Ayse Yilmaz",
		Role:         domain.RoleApplicant,
		IsActive:     true,
	}
}

func TestAuth_Login(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	user := hashedUser(t, "correct-horse")
	repo.On("GetByEmail", mock.Anything, "ayse@example.com").Return(user, nil)
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)
	svc := service.NewAuthService(repo, testJWTConfig())

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: "ayse@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleApplicant, claims.Role)

	_, err = svc.Login(context.Background(), service.LoginInput{Email: "ayse@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), service.LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuth_Login_Inactive(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	user := hashedUser(t, "correct-horse")
	user.IsActive = false
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	svc := service.NewAuthService(repo, testJWTConfig())

	_, err := svc.Login(context.Background(), service.LoginInput{Email: user.Email, Password: "correct-horse"})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuth_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	user := hashedUser(t, "correct-horse")
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := service.NewAuthService(repo, testJWTConfig())

	tokens, err := svc.Login(context.Background(), service.LoginInput{Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.Error(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_Register(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.Role == domain.RoleApplicant && u.PasswordHash != "secret-pass"
	})).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)
	svc := service.NewAuthService(repo, testJWTConfig())

	out, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  New@Example.com ",
		Password: "secret-pass",
		FullName: "New Applicant",
	})
	require.NoError(t, err)
	assert.NotNil(t, out.Tokens)

	_, err = svc.Register(context.Background(), service.RegisterInput{
		Email:    "new@example.com",
		Password: "secret-pass",
		FullName: "Again",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}
