package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askgpt/internal/model"
)

func newAuthService(users UserStore) *AuthService {
	return NewAuthService(users, "test-secret", time.Hour, 100)
}

func TestRegisterSeedsDefaultQueryCredits(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	result, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 100, result.User.QueryCredits)
	assert.Empty(t, result.User.PlanID, "new users start on the free plan")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserStore(&model.User{ID: 1, Username: "alice", Email: "other@example.com"})
	svc := newAuthService(users)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "supersecret"})

	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLoginRoundTrip(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	result, err := svc.Login(LoginInput{Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
