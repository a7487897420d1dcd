package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

func TestUser_Update(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	user := &domain.User{ID: uuid.New(), Email: "old@example.com", FullName: "Old", PasswordHash: "old-hash"}
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)
	svc := service.NewUserService(repo)

	email := " New@Example.com"
	password := "a-new-password"
	got, err := svc.Update(context.Background(), user.ID, service.UpdateUserInput{Email: &email, Password: &password})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "Old", got.FullName)
	assert.NotEqual(t, "old-hash", got.PasswordHash)
}

func TestUser_Update_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)
	svc := service.NewUserService(repo)

	_, err := svc.Update(context.Background(), id, service.UpdateUserInput{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
