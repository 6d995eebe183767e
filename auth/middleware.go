package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/apperror"
)

// IdentityResolver is the narrow surface the middleware needs: verify a token
// and confirm its subject still exists. AuthService satisfies it; tests can
// substitute a stub.
type IdentityResolver interface {
	ParseToken(tokenString string) (*Claims, error)
	FindUserByID(ctx context.Context, id int) (*User, error)
}

// RequireAuth returns middleware that rejects any request without a valid
// bearer token. A missing header, a token that fails verification, and a
// token whose user has since vanished all produce the same 401; the response
// body never explains which case applied.
//
// RequireAuth and AttachUserIfPresent are deliberately two middlewares rather
// than one parametrized check: whether a failed check blocks the request is a
// first-class behavioral difference a route must declare explicitly.
func RequireAuth(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := resolveIdentity(r, resolver)
			if !ok {
				WriteError(w, r, apperror.NewAuthError("not authorized", nil))
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithIdentity(r.Context(), identity)))
		})
	}
}

// AttachUserIfPresent returns middleware that performs the same extraction and
// verification as RequireAuth but never blocks: on any failure it simply
// forwards the request without an identity. This is the policy for comment
// submission, which accepts anonymous authors.
func AttachUserIfPresent(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := resolveIdentity(r, resolver); ok {
				r = r.WithContext(NewContextWithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveIdentity extracts the bearer token from the Authorization header,
// verifies it, and looks up the user it names. The identity carries the
// username as currently stored, not as embedded in the token.
func resolveIdentity(r *http.Request, resolver IdentityResolver) (*Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Header format is "Bearer {token}".
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}

	claims, err := resolver.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}

	user, err := resolver.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}

	return &Identity{UserID: user.ID, Username: user.Username}, true
}
