package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirsearch/internal/domain"
	"github.com/kailas-cloud/dirsearch/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKey binds a bearer token to the principal it authenticates.
type APIKey struct {
	Key      string
	TenantID string
	UserID   string
	Admin    bool
}

// BearerAuthMiddleware resolves the Bearer token to a principal and stores it in the
// request context. The tenant is taken from the key, never from the request.
// If keys is empty, no principal is attached and tenant-scoped handlers answer 401.
func BearerAuthMiddleware(keys []APIKey) func(http.Handler) http.Handler {
	principals := make(map[string]domain.Principal, len(keys))
	for _, k := range keys {
		if k.Key != "" {
			principals[k.Key] = domain.Principal{TenantID: k.TenantID, UserID: k.UserID, Admin: k.Admin}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(principals) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			p, ok := principals[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
				return
			}

			annotatePrincipal(r.Context(), p)
			ctx := domain.ContextWithPrincipal(r.Context(), p)
			ctx = logger.WithFields(ctx, zap.String("tenant_id", p.TenantID), zap.String("user_id", p.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
