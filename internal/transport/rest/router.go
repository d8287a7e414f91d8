package rest

import (
	"net/http"

	"github.com/minicrm/backend/internal/transport/middleware"
)

// Handlers aggregates the handler set the router mounts.
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Requests      *RequestHandler
	Refdata       *RefdataHandler
	Clients       *ClientHandler
	Organizations *OrganizationHandler
	WebApp        *WebAppHandler
	Webhook       *WebhookHandler
}

// RouterDeps carries the auth middleware dependencies.
type RouterDeps struct {
	ManagerAuth middleware.Middleware
	ClientAuth  middleware.Middleware
}

// NewRouter assembles the HTTP route table. The base middleware chain
// (request id, logging, recovery, CORS) is applied by the caller around the
// returned handler; this router only applies per-surface auth.
func NewRouter(h Handlers, deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/admin/auth/bootstrap", h.Auth.Bootstrap)
	mux.HandleFunc("POST /api/admin/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/admin/auth/logout", h.Auth.Logout)

	admin := func(fn http.HandlerFunc) http.Handler {
		return deps.ManagerAuth(middleware.RequireManager(fn))
	}
	mux.Handle("GET /api/admin/requests", admin(h.Requests.List))
	mux.Handle("GET /api/admin/requests/{id}", admin(h.Requests.Get))
	mux.Handle("PATCH /api/admin/requests/{id}", admin(h.Requests.Update))
	mux.Handle("GET /api/admin/requests/{id}/invoice", admin(h.Requests.Invoice))

	mux.Handle("GET /api/admin/clients", admin(h.Clients.List))

	mux.Handle("POST /api/admin/directions", admin(h.Refdata.CreateDirection))
	mux.Handle("GET /api/admin/directions", admin(h.Refdata.ListDirections))
	mux.Handle("PATCH /api/admin/directions/{id}", admin(h.Refdata.SetDirectionActive))
	mux.Handle("POST /api/admin/delivery-slots", admin(h.Refdata.CreateSlot))
	mux.Handle("GET /api/admin/delivery-slots", admin(h.Refdata.ListSlots))
	mux.Handle("PATCH /api/admin/delivery-slots/{id}", admin(h.Refdata.SetSlotActive))
	mux.Handle("DELETE /api/admin/delivery-slots/{id}", admin(h.Refdata.DeleteSlot))

	mux.Handle("PUT /api/admin/organizations/{clientId}", admin(h.Organizations.Upsert))
	mux.Handle("GET /api/admin/organizations/{clientId}", admin(h.Organizations.Get))
	mux.Handle("DELETE /api/admin/organizations/{clientId}", admin(h.Organizations.Delete))

	webapp := func(fn http.HandlerFunc) http.Handler {
		return deps.ClientAuth(middleware.RequireClient(fn))
	}
	mux.Handle("GET /api/webapp/me", webapp(h.WebApp.Me))
	mux.Handle("GET /api/webapp/directions", webapp(h.Refdata.ListDirections))
	mux.Handle("GET /api/webapp/delivery-slots", webapp(h.Refdata.ListSlots))
	mux.Handle("POST /api/webapp/requests", webapp(h.WebApp.CreateRequest))
	mux.Handle("GET /api/webapp/requests", webapp(h.WebApp.ListRequests))
	mux.Handle("GET /api/webapp/requests/{id}", webapp(h.WebApp.GetRequest))

	mux.HandleFunc("POST /api/telegram/webhook", h.Webhook.Handle)

	return mux
}
