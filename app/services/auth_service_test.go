package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/validate"
)

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	setupDB(t)

	svc := services.NewAuthService()
	user, err := svc.Register(services.RegisterInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		Password:  "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	logged, err := svc.Login("jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupDB(t)

	svc := services.NewAuthService()
	in := services.RegisterInput{Email: "jane@example.com", FirstName: "Jane", Password: "secret123"}

	_, err := svc.Register(in)
	require.NoError(t, err)

	_, err = svc.Register(in)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegisterInputValidation(t *testing.T) {
	errs := validate.Struct(&services.RegisterInput{
		Email:     "not-an-email",
		FirstName: "",
		Password:  "short",
	})
	require.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "password")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setupDB(t)

	svc := services.NewAuthService()
	_, err := svc.Register(services.RegisterInput{
		Email: "jane@example.com", FirstName: "Jane", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login("jane@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
