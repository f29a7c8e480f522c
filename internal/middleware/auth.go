package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelasco/taskapi/internal/auth"
	"github.com/avelasco/taskapi/internal/slogx"
	"github.com/avelasco/taskapi/internal/utils"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the resolved caller, available to handlers for the
// duration of the request only.
type Identity struct {
	UserID   int64
	Username string
}

// IdentityFromContext returns the caller identity set by Authenticator.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}

// ContextWithIdentity attaches the caller identity to the context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// Authenticator extracts and verifies the bearer token on each request.
// Every failure is a uniform 401; the actual cause is logged for
// observability but never exposed to the client.
func Authenticator(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" {
				unauthenticated(w)
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthenticated(w)
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				unauthenticated(w)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				log.Warn("token verify failed", "err", err)
				unauthenticated(w)
				return
			}

			ctx := ContextWithIdentity(r.Context(), Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.JSONError(w, http.StatusUnauthorized, "authentication failed")
}
