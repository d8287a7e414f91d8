package managerauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm/backend/internal/domain"
)

// Login authenticates a manager with email + password and issues a session
// token. Unknown email, wrong password and a deactivated account all yield
// the same ErrUnauthorized so callers cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	mgr, err := s.managers.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("managerauth.Login get manager: %w", err)
	}

	if !mgr.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(mgr.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateToken(mgr.ID, mgr.Role.String())
	if err != nil {
		return nil, fmt.Errorf("managerauth.Login generate token: %w", err)
	}

	if err := s.managers.TouchLastLogin(ctx, mgr.ID, time.Now().UTC()); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.log.WarnContext(ctx, "failed to record last login",
			slog.String("manager_id", mgr.ID.String()),
			slog.String("error", err.Error()))
	}

	s.log.InfoContext(ctx, "manager logged in",
		slog.String("manager_id", mgr.ID.String()))

	return &AuthResult{Token: token, Manager: mgr}, nil
}

// Authenticate validates a session token and returns the manager principal.
// Tokens of deleted or deactivated accounts are rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	managerID, role, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	mgr, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("managerauth.Authenticate get manager: %w", err)
	}
	if !mgr.Active {
		return nil, domain.ErrUnauthorized
	}

	// The stored role wins over the token claim if they diverge.
	if mgr.Role.String() != role {
		role = mgr.Role.String()
	}

	p := domain.ManagerPrincipal(mgr.ID, domain.ManagerRole(role))
	return &p, nil
}
