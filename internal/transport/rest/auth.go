package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/minicrm/backend/internal/service/managerauth"
)

// managerAuthService defines the minimal interface needed by AuthHandler.
type managerAuthService interface {
	Bootstrap(ctx context.Context, input managerauth.BootstrapInput) (*managerauth.AuthResult, error)
	Login(ctx context.Context, input managerauth.LoginInput) (*managerauth.AuthResult, error)
}

// AuthHandler serves the manager session endpoints.
type AuthHandler struct {
	svc managerAuthService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc managerAuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Manager managerResponse `json:"manager"`
}

type managerResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Bootstrap handles POST /api/admin/auth/bootstrap. It creates the first
// admin account; once any manager exists the endpoint answers 409.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Bootstrap(r.Context(), managerauth.BootstrapInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(result))
}

// Login handles POST /api/admin/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), managerauth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(result))
}

// Logout handles POST /api/admin/auth/logout. Sessions are stateless JWTs,
// so the server side has nothing to revoke; the endpoint exists so clients
// have a uniform place to end a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toSessionResponse(result *managerauth.AuthResult) sessionResponse {
	return sessionResponse{
		Token: result.Token,
		Manager: managerResponse{
			ID:          result.Manager.ID.String(),
			Email:       result.Manager.Email,
			Role:        string(result.Manager.Role),
			CreatedAt:   result.Manager.CreatedAt,
			LastLoginAt: result.Manager.LastLoginAt,
		},
	}
}
