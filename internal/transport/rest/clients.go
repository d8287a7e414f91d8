package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/minicrm/backend/internal/domain"
)

type clientListService interface {
	List(ctx context.Context) ([]domain.ClientSummary, error)
}

// ClientHandler serves the manager-facing client registry endpoints.
type ClientHandler struct {
	svc clientListService
	log *slog.Logger
}

// NewClientHandler creates a ClientHandler.
func NewClientHandler(svc clientListService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{svc: svc, log: logger.With("handler", "clients")}
}

// List handles GET /api/admin/clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, toClientResponse(&clients[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
