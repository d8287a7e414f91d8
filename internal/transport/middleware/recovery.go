package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/minicrm/backend/pkg/ctxutil"
)

// Recovery returns middleware that recovers from panics, logs the failure
// with a stack trace and the request correlation attributes, and responds
// with 500 Internal Server Error.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					attrs := []any{
						slog.Any("error", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					}
					if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
						attrs = append(attrs, slog.String("request_id", id))
					}
					if p, ok := ctxutil.PrincipalFromCtx(r.Context()); ok {
						attrs = append(attrs,
							slog.String("principal_kind", string(p.Kind)),
							slog.String("principal_id", p.ID.String()))
					}
					logger.ErrorContext(r.Context(), "panic recovered", attrs...)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
