package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/httpx"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// Middleware guards routes behind bearer-token authentication and the role
// capability flags.
type Middleware struct {
	Logger  *slog.Logger
	Service *Service
}

// RequireAuth validates the Authorization header and stores the resolved
// identity in the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		identity, err := m.Service.ValidateToken(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects callers whose role lacks the given capability flag.
func (m Middleware) Require(perm shared.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if !identity.Permissions.Allows(perm) {
				if m.Logger != nil {
					m.Logger.Warn("permission denied",
						slog.String("path", r.URL.Path),
						slog.Int64("user_id", identity.UserID),
						slog.String("permission", string(perm)))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
