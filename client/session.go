package client

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/auth"
)

// tokenFileName is the fixed name the token is stored under, the durable
// local storage key of the web frontend.
const tokenFileName = "ghibli-token"

// ErrBadToken is returned when a token cannot be decoded or is already
// expired at login time.
var ErrBadToken = errors.New("token is invalid or expired")

// Session holds the client's durable auth state: the bearer token persisted
// to a file plus the identity decoded from it. Identity resolution happens
// once at the boundary, on load and on login, never scattered through
// calling code.
//
// The token payload is read without verifying the signature: the client does
// not hold the signing secret, and the server re-verifies on every request
// anyway. Only the expiry is checked locally, to discard stale tokens early.
type Session struct {
	mu       sync.Mutex
	path     string
	token    string
	identity *auth.Identity
}

// NewSession creates a session persisting its token under dir. A previously
// stored token is loaded and decoded; an expired or undecodable token is
// discarded as if logged out.
func NewSession(dir string) *Session {
	s := &Session{path: filepath.Join(dir, tokenFileName)}
	s.loadStoredToken()
	return s
}

func (s *Session) loadStoredToken() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	identity, err := decodeIdentity(string(raw))
	if err != nil {
		// Clear bad token so the next load starts clean.
		_ = os.Remove(s.path)
		return
	}
	s.token = string(raw)
	s.identity = identity
}

// decodeIdentity extracts the identity from a token without signature
// verification, rejecting expired tokens.
func decodeIdentity(token string) (*auth.Identity, error) {
	claims := &auth.Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrBadToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return nil, ErrBadToken
	}
	if claims.UserID == 0 {
		return nil, ErrBadToken
	}
	return &auth.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// Login stores the token durably and resolves the identity from it.
func (s *Session) Login(token string) error {
	identity, err := decodeIdentity(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	s.identity = identity
	return nil
}

// Logout discards the token and clears the identity. Called directly by the
// user or by the API client's unauthorized hook when the server rejects the
// token.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path)
	s.token = ""
	s.identity = nil
}

// Token returns the stored bearer token. Implements TokenSource.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Current returns the logged-in identity, if any.
func (s *Session) Current() (auth.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return auth.Identity{}, false
	}
	return *s.identity, true
}

// AuthorLabel is the display name used for provisional comments: the current
// username, or "Anonymous" when logged out.
func (s *Session) AuthorLabel() string {
	if id, ok := s.Current(); ok {
		return id.Username
	}
	return "Anonymous"
}
