package clientreg

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/domain"
)

// clientRepo defines the client repository interface needed by the service.
type clientRepo interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, firstName, lastName *string) error
	SetConsent(ctx context.Context, id uuid.UUID, version string, acceptedAt time.Time) error
	List(ctx context.Context) ([]domain.ClientSummary, error)
}

// Service maintains the client registry keyed by Telegram identity.
type Service struct {
	log            *slog.Logger
	clients        clientRepo
	consentVersion string
}

// NewService creates a new client registry service instance.
func NewService(logger *slog.Logger, clients clientRepo, consentVersion string) *Service {
	return &Service{
		log:            logger.With("service", "clientreg"),
		clients:        clients,
		consentVersion: consentVersion,
	}
}
