package middleware

import (
	"context"
	"net/http"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
	"github.com/minicrm/backend/pkg/ctxutil"
)

// InitDataHeader carries the raw Telegram Mini App init data on client calls.
const InitDataHeader = "X-Telegram-Init-Data"

type initDataVerifier interface {
	Verify(raw string) (*auth.Identity, error)
}

type clientResolver interface {
	ResolveOrCreate(ctx context.Context, identity *auth.Identity) (*domain.Client, error)
}

// ClientAuth verifies the init data header, resolves the client record it
// identifies, and stores a client principal in the request context. Requests
// without the header pass through anonymous.
func ClientAuth(verifier initDataVerifier, clients clientResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(InitDataHeader)
			if raw == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			identity, err := verifier.Verify(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			client, err := clients.ResolveOrCreate(r.Context(), identity)
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			ctx := ctxutil.WithPrincipal(r.Context(), domain.ClientPrincipal(client.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
