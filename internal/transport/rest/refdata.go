package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/minicrm/backend/internal/domain"
)

// refdataService defines the reference-data operations used by handlers.
type refdataService interface {
	CreateDirection(ctx context.Context, p domain.Principal, name string) (*domain.Direction, error)
	ListDirections(ctx context.Context, p domain.Principal, includeInactive bool) ([]domain.Direction, error)
	SetDirectionActive(ctx context.Context, p domain.Principal, id uuid.UUID, active bool) error
	CreateSlot(ctx context.Context, p domain.Principal, directionID *uuid.UUID, date time.Time) (*domain.DeliverySlot, error)
	ListSlots(ctx context.Context, p domain.Principal, directionID *uuid.UUID, includeInactive bool) ([]domain.DeliverySlot, error)
	SetSlotActive(ctx context.Context, p domain.Principal, id uuid.UUID, active bool) error
	DeleteSlot(ctx context.Context, p domain.Principal, id uuid.UUID) error
}

// RefdataHandler serves direction and delivery-slot endpoints.
type RefdataHandler struct {
	svc refdataService
	log *slog.Logger
}

// NewRefdataHandler creates a RefdataHandler.
func NewRefdataHandler(svc refdataService, logger *slog.Logger) *RefdataHandler {
	return &RefdataHandler{svc: svc, log: logger.With("handler", "refdata")}
}

type createDirectionRequest struct {
	Name string `json:"name"`
}

// CreateDirection handles POST /api/admin/directions.
func (h *RefdataHandler) CreateDirection(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req createDirectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	direction, err := h.svc.CreateDirection(r.Context(), p, req.Name)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDirectionResponse(direction))
}

// ListDirections handles both the admin and web-app direction listings.
// Only managers may pass include_inactive=true.
func (h *RefdataHandler) ListDirections(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	directions, err := h.svc.ListDirections(r.Context(), p, includeInactive)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]directionResponse, 0, len(directions))
	for i := range directions {
		out = append(out, toDirectionResponse(&directions[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetDirectionActive handles PATCH /api/admin/directions/{id}.
func (h *RefdataHandler) SetDirectionActive(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid direction id")
		return
	}

	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetDirectionActive(r.Context(), p, id, req.Active); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createSlotRequest struct {
	DirectionID *string `json:"directionId"`
	Date        string  `json:"date"`
}

// CreateSlot handles POST /api/admin/delivery-slots. Date is YYYY-MM-DD;
// a null directionId makes the slot valid for any direction.
func (h *RefdataHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req createSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var directionID *uuid.UUID
	if req.DirectionID != nil {
		id, err := uuid.Parse(*req.DirectionID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid directionId")
			return
		}
		directionID = &id
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	slot, err := h.svc.CreateSlot(r.Context(), p, directionID, date)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSlotResponse(slot))
}

// ListSlots handles both the admin and web-app slot listings. Supports
// direction_id and include_inactive query parameters.
func (h *RefdataHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var directionID *uuid.UUID
	if raw := r.URL.Query().Get("direction_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid direction_id")
			return
		}
		directionID = &id
	}
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	slots, err := h.svc.ListSlots(r.Context(), p, directionID, includeInactive)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// SetSlotActive handles PATCH /api/admin/delivery-slots/{id}.
func (h *RefdataHandler) SetSlotActive(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetSlotActive(r.Context(), p, id, req.Active); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteSlot handles DELETE /api/admin/delivery-slots/{id}. A slot already
// referenced by requests is rejected with a conflict.
func (h *RefdataHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	if err := h.svc.DeleteSlot(r.Context(), p, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
