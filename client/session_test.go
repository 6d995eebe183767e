package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
)

// signedToken builds a bearer token the session can decode. The signature
// does not matter to the client; only the payload and expiry are read.
func signedToken(t *testing.T, userID int, username string, lifetime time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_LoginPersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	token := signedToken(t, 42, "totoro_fan", time.Hour)

	s := NewSession(dir)
	_, ok := s.Current()
	require.False(t, ok, "fresh session starts logged out")

	require.NoError(t, s.Login(token))
	identity, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 42, identity.UserID)
	assert.Equal(t, "totoro_fan", identity.Username)
	assert.Equal(t, "totoro_fan", s.AuthorLabel())

	// A new session over the same directory picks the token back up.
	restored := NewSession(dir)
	identity, ok = restored.Current()
	require.True(t, ok)
	assert.Equal(t, 42, identity.UserID)

	got, ok := restored.Token()
	require.True(t, ok)
	assert.Equal(t, token, got)
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewSession(dir)
	require.NoError(t, s.Login(signedToken(t, 7, "kiki", time.Hour)))

	s.Logout()
	_, ok := s.Current()
	assert.False(t, ok)
	_, ok = s.Token()
	assert.False(t, ok)
	assert.Equal(t, "Anonymous", s.AuthorLabel())

	// The stored file is gone, so a restart stays logged out.
	_, err := os.Stat(filepath.Join(dir, tokenFileName))
	assert.True(t, os.IsNotExist(err))
	_, ok = NewSession(dir).Current()
	assert.False(t, ok)
}

func TestSession_ExpiredStoredTokenDiscarded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	expired := signedToken(t, 9, "chihiro", -time.Minute)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), []byte(expired), 0o600))

	s := NewSession(dir)
	_, ok := s.Current()
	assert.False(t, ok)

	// The bad token was also removed from disk.
	_, err := os.Stat(filepath.Join(dir, tokenFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestSession_GarbageStoredTokenDiscarded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), []byte("not a jwt"), 0o600))

	s := NewSession(dir)
	_, ok := s.Current()
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(dir, tokenFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestSession_LoginRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	s := NewSession(t.TempDir())
	err := s.Login(signedToken(t, 9, "chihiro", -time.Minute))
	assert.ErrorIs(t, err, ErrBadToken)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_LoginRejectsGarbage(t *testing.T) {
	t.Parallel()

	s := NewSession(t.TempDir())
	assert.ErrorIs(t, s.Login("garbage"), ErrBadToken)
}
