package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/minicrm/backend/internal/domain"
	"github.com/minicrm/backend/internal/service/organization"
)

// organizationService defines the requisites operations used by handlers.
type organizationService interface {
	Upsert(ctx context.Context, p domain.Principal, clientID uuid.UUID, input organization.UpsertInput) (*domain.Organization, error)
	Get(ctx context.Context, p domain.Principal, clientID uuid.UUID) (*domain.Organization, error)
	Delete(ctx context.Context, p domain.Principal, clientID uuid.UUID) error
}

// OrganizationHandler serves billing-requisites endpoints keyed by client.
type OrganizationHandler struct {
	svc organizationService
	log *slog.Logger
}

// NewOrganizationHandler creates an OrganizationHandler.
func NewOrganizationHandler(svc organizationService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, log: logger.With("handler", "organizations")}
}

type upsertOrganizationRequest struct {
	Name                 string  `json:"name"`
	INN                  *string `json:"inn"`
	KPP                  *string `json:"kpp"`
	OGRN                 *string `json:"ogrn"`
	Address              *string `json:"address"`
	SettlementAccount    *string `json:"settlementAccount"`
	BIK                  *string `json:"bik"`
	CorrespondentAccount *string `json:"correspondentAccount"`
	Bank                 *string `json:"bank"`
	Director             *string `json:"director"`
	Contract             *string `json:"contract"`
}

// Upsert handles PUT /api/admin/organizations/{clientId}. It replaces the
// client's requisites wholesale; omitted fields become null.
func (h *OrganizationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathUUID(r, "clientId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req upsertOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.svc.Upsert(r.Context(), p, clientID, organization.UpsertInput{
		Name:                 req.Name,
		INN:                  req.INN,
		KPP:                  req.KPP,
		OGRN:                 req.OGRN,
		Address:              req.Address,
		SettlementAccount:    req.SettlementAccount,
		BIK:                  req.BIK,
		CorrespondentAccount: req.CorrespondentAccount,
		Bank:                 req.Bank,
		Director:             req.Director,
		Contract:             req.Contract,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// Get handles GET /api/admin/organizations/{clientId}.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathUUID(r, "clientId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	org, err := h.svc.Get(r.Context(), p, clientID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// Delete handles DELETE /api/admin/organizations/{clientId}.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathUUID(r, "clientId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	if err := h.svc.Delete(r.Context(), p, clientID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
