package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/minicrm/backend/internal/domain"
	"github.com/minicrm/backend/internal/service/request"
)

// clientProfileService fetches the caller's own client record.
type clientProfileService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

// clientRequestService defines the request operations available to clients.
type clientRequestService interface {
	Create(ctx context.Context, p domain.Principal, input request.CreateInput) (*domain.RequestSummary, error)
	ListOwn(ctx context.Context, p domain.Principal) ([]domain.RequestSummary, error)
	GetForClient(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.RequestDetails, error)
}

// WebAppHandler serves the Telegram mini-app surface. Callers authenticate
// with the init-data header; the middleware injects a client principal.
type WebAppHandler struct {
	clients  clientProfileService
	requests clientRequestService
	log      *slog.Logger
}

// NewWebAppHandler creates a WebAppHandler.
func NewWebAppHandler(clients clientProfileService, requests clientRequestService, logger *slog.Logger) *WebAppHandler {
	return &WebAppHandler{
		clients:  clients,
		requests: requests,
		log:      logger.With("handler", "webapp"),
	}
}

type meResponse struct {
	ID                string     `json:"id"`
	TelegramID        int64      `json:"telegramId"`
	Username          *string    `json:"username,omitempty"`
	FirstName         *string    `json:"firstName,omitempty"`
	LastName          *string    `json:"lastName,omitempty"`
	HasConsent        bool       `json:"hasConsent"`
	ConsentVersion    *string    `json:"consentVersion,omitempty"`
	ConsentAcceptedAt *time.Time `json:"consentAcceptedAt,omitempty"`
}

// Me handles GET /api/webapp/me.
func (h *WebAppHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	client, err := h.clients.GetByID(r.Context(), p.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:                client.ID.String(),
		TelegramID:        client.TelegramID,
		Username:          client.Username,
		FirstName:         client.FirstName,
		LastName:          client.LastName,
		HasConsent:        client.HasConsent(),
		ConsentVersion:    client.ConsentVersion,
		ConsentAcceptedAt: client.ConsentAcceptedAt,
	})
}

type createRequestRequest struct {
	DirectionID    string  `json:"directionId"`
	DeliverySlotID string  `json:"deliverySlotId"`
	BoxesCount     int     `json:"boxesCount"`
	WeightKg       float64 `json:"weightKg"`
	VolumeM3       float64 `json:"volumeM3"`
	Comment        *string `json:"comment"`
}

// CreateRequest handles POST /api/webapp/requests.
func (h *WebAppHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Nil on parse failure: the service reports a proper field error.
	directionID, _ := uuid.Parse(req.DirectionID)
	slotID, _ := uuid.Parse(req.DeliverySlotID)

	summary, err := h.requests.Create(r.Context(), p, request.CreateInput{
		DirectionID:    directionID,
		DeliverySlotID: slotID,
		BoxesCount:     req.BoxesCount,
		WeightKg:       req.WeightKg,
		VolumeM3:       req.VolumeM3,
		Comment:        req.Comment,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(summary))
}

// ListRequests handles GET /api/webapp/requests.
func (h *WebAppHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	items, err := h.requests.ListOwn(r.Context(), p)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestListResponse(items))
}

// GetRequest handles GET /api/webapp/requests/{id}. Requests of other
// clients are indistinguishable from missing ones.
func (h *WebAppHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	details, err := h.requests.GetForClient(r.Context(), p, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestDetailsResponse(details))
}
