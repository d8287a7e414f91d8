package managerauth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/domain"
)

// managerRepo defines the manager repository interface needed by the service.
type managerRepo interface {
	Create(ctx context.Context, m *domain.Manager) (*domain.Manager, error)
	GetByEmail(ctx context.Context, email string) (*domain.Manager, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Manager, error)
	Count(ctx context.Context) (int, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the session token interface needed by the service.
type jwtManager interface {
	GenerateToken(managerID uuid.UUID, role string) (string, error)
	ValidateToken(token string) (uuid.UUID, string, error)
}

// Service implements manager account and session operations.
type Service struct {
	log      *slog.Logger
	managers managerRepo
	tx       txManager
	jwt      jwtManager
	cfg      config.AuthConfig
}

// NewService creates a new manager auth service instance.
func NewService(logger *slog.Logger, managers managerRepo, tx txManager, jwt jwtManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:      logger.With("service", "managerauth"),
		managers: managers,
		tx:       tx,
		jwt:      jwt,
		cfg:      cfg,
	}
}
