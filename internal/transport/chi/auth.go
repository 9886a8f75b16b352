package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lostaf-io/lostaf/internal/domain"
	"github.com/lostaf-io/lostaf/internal/domain/user"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session_token"

// SessionStore resolves and revokes session tokens.
type SessionStore interface {
	Lookup(ctx context.Context, token string) (user.User, error)
	Revoke(ctx context.Context, token string) error
}

type userCtxKey struct{}

// UserFromContext returns the authenticated user placed by SessionAuthMiddleware.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(user.User)
	return u, ok
}

func contextWithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// sessionToken reads the token from the session cookie, falling back to a Bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	const bearerPrefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}

// SessionAuthMiddleware rejects requests without a valid session with 401
// and stores the session's user in the request context.
func SessionAuthMiddleware(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "Not authenticated")
				return
			}

			u, err := sessions.Lookup(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "Not authenticated")
					return
				}
				handleDomainError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), u)))
		})
	}
}
