package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/auth"
)

func newAuth(t *testing.T) (*AuthService, *capturedSender, *repositories.UserRepository) {
	t.Helper()
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	sender := &capturedSender{}
	return NewAuthService(users, sender.send), sender, users
}

func TestRegisterSendsWelcome(t *testing.T) {
	svc, sender, _ := newAuth(t)

	user, err := svc.Register(RegisterInput{
		Email:     "new@example.com",
		Password:  "s3cret-pass",
		FirstName: "Ada",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "s3cret-pass"))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "new@example.com", sender.messages[0].To)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuth(t)

	_, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "dup@example.com", Password: "password2"})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "email")
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuth(t)

	_, err := svc.Register(RegisterInput{Email: "login@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	token, user, err := svc.Login("login@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "login@example.com", user.Email)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// Wrong password and unknown account fail identically.
	_, _, err = svc.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, _, err = svc.Login("ghost@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, users := newAuth(t)

	user, err := svc.Register(RegisterInput{Email: "p@example.com", Password: "password1"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Country:   "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)

	stored, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hopper", stored.LastName)
}
