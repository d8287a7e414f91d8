package managerauth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/minicrm/backend/internal/domain"
)

// Bootstrap creates the very first admin account. It only succeeds while the
// manager table is empty; once any account exists it returns
// ErrAlreadyInitialized. The count check and the insert run in one
// transaction, and the unique email constraint backstops concurrent calls.
func (s *Service) Bootstrap(ctx context.Context, input BootstrapInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("managerauth.Bootstrap hash password: %w", err)
	}

	var created *domain.Manager
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		count, err := s.managers.Count(ctx)
		if err != nil {
			return fmt.Errorf("count managers: %w", err)
		}
		if count > 0 {
			return domain.ErrAlreadyInitialized
		}

		created, err = s.managers.Create(ctx, &domain.Manager{
			Email:        input.Email,
			PasswordHash: string(hash),
			Role:         domain.ManagerRoleAdmin,
			Active:       true,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(created.ID, created.Role.String())
	if err != nil {
		return nil, fmt.Errorf("managerauth.Bootstrap generate token: %w", err)
	}

	s.log.InfoContext(ctx, "bootstrap admin created",
		slog.String("manager_id", created.ID.String()))

	return &AuthResult{Token: token, Manager: created}, nil
}
