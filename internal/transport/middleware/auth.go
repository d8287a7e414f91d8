package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/minicrm/backend/internal/domain"
	"github.com/minicrm/backend/pkg/ctxutil"
)

type sessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// ManagerAuth validates a Bearer session token and stores the resulting
// manager principal in the request context. Requests without a token pass
// through anonymous; route guards decide whether that is acceptable.
func ManagerAuth(sessions sessionAuthenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			principal, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithPrincipal(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
