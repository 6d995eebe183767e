package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
)

// Validation runs before any database access, so these cases are safe to
// exercise against a service with a nil pool.
func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"empty username", "", "secret123", "username and password are required"},
		{"empty password", "totoro", "", "username and password are required"},
		{"whitespace username", "   ", "secret123", "username and password are required"},
		{"short username", "ab", "secret123", "username must be at least 3 characters"},
		{"short password", "totoro", "12345", "password must be at least 6 characters"},
	}

	svc := newTestService("test-secret", 0)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := svc.Register(context.Background(), RegisterRequest{
				Username: tc.username,
				Password: tc.password,
			})
			require.Error(t, err)
			assert.Nil(t, user)
			assert.True(t, apperror.IsValidationError(err))

			appErr, ok := apperror.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	t.Parallel()

	svc := newTestService("test-secret", 0)
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret123"},
		{"empty password", "totoro", ""},
		{"both empty", "", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := svc.Login(context.Background(), LoginRequest{
				Username: tc.username,
				Password: tc.password,
			})
			require.Error(t, err)
			assert.Nil(t, resp)

			appErr, ok := apperror.FromError(err)
			require.True(t, ok)
			assert.Equal(t, 400, appErr.StatusCode())
		})
	}
}
