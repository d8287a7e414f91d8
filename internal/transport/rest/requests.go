package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/minicrm/backend/internal/domain"
	"github.com/minicrm/backend/internal/service/request"
)

// requestService defines the request operations used by the admin surface.
type requestService interface {
	Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.RequestDetails, error)
	List(ctx context.Context, p domain.Principal, filter domain.RequestFilter) ([]domain.RequestSummary, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, input request.UpdateInput) (*domain.RequestSummary, error)
}

// organizationReader fetches billing requisites for invoice rendering.
type organizationReader interface {
	Get(ctx context.Context, p domain.Principal, clientID uuid.UUID) (*domain.Organization, error)
}

// invoiceBuilder renders a request invoice as a PDF document.
type invoiceBuilder interface {
	BuildRequestInvoice(details *domain.RequestDetails, org *domain.Organization) ([]byte, error)
}

// RequestHandler serves the manager-facing request endpoints.
type RequestHandler struct {
	requests requestService
	orgs     organizationReader
	invoices invoiceBuilder
	log      *slog.Logger
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(requests requestService, orgs organizationReader, invoices invoiceBuilder, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		orgs:     orgs,
		invoices: invoices,
		log:      logger.With("handler", "requests"),
	}
}

// List handles GET /api/admin/requests. Query parameters: status,
// direction_id, q (matches client username or Telegram ID).
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var filter domain.RequestFilter
	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status := domain.RequestStatus(raw)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw))
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("direction_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid direction_id")
			return
		}
		filter.DirectionID = &id
	}
	filter.SearchText = q.Get("q")

	items, err := h.requests.List(r.Context(), p, filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestListResponse(items))
}

// Get handles GET /api/admin/requests/{id}.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	details, err := h.requests.Get(r.Context(), p, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestDetailsResponse(details))
}

type updateRequestRequest struct {
	Status         *string  `json:"status"`
	DirectionID    *string  `json:"directionId"`
	DeliverySlotID *string  `json:"deliverySlotId"`
	BoxesCount     *int     `json:"boxesCount"`
	WeightKg       *float64 `json:"weightKg"`
	VolumeM3       *float64 `json:"volumeM3"`
	Comment        *string  `json:"comment"`
	HistoryComment *string  `json:"historyComment"`
}

// Update handles PATCH /api/admin/requests/{id}.
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req updateRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := request.UpdateInput{
		BoxesCount:     req.BoxesCount,
		WeightKg:       req.WeightKg,
		VolumeM3:       req.VolumeM3,
		Comment:        req.Comment,
		HistoryComment: req.HistoryComment,
	}
	if req.Status != nil {
		status := domain.RequestStatus(*req.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", *req.Status))
			return
		}
		input.Status = &status
	}
	if req.DirectionID != nil {
		dirID, err := uuid.Parse(*req.DirectionID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid directionId")
			return
		}
		input.DirectionID = &dirID
	}
	if req.DeliverySlotID != nil {
		slotID, err := uuid.Parse(*req.DeliverySlotID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid deliverySlotId")
			return
		}
		input.DeliverySlotID = &slotID
	}

	summary, err := h.requests.Update(r.Context(), p, id, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(summary))
}

// Invoice handles GET /api/admin/requests/{id}/invoice. It renders the
// invoice PDF; missing organization requisites produce placeholder fields
// rather than an error.
func (h *RequestHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	details, err := h.requests.Get(r.Context(), p, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	org, err := h.orgs.Get(r.Context(), p, details.ClientID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			handleError(w, r, h.log, err)
			return
		}
		org = nil
	}

	doc, err := h.invoices.BuildRequestInvoice(details, org)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", details.Number))
	w.WriteHeader(http.StatusOK)
	w.Write(doc) //nolint:errcheck
}
