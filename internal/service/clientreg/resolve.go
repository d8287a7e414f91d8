package clientreg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

// ResolveOrCreate maps a verified Telegram identity to a client record,
// creating one on first contact. Concurrent calls for the same Telegram user
// converge on a single record. Stored profile fields are refreshed when the
// identity carries newer values.
func (s *Service) ResolveOrCreate(ctx context.Context, identity *auth.Identity) (*domain.Client, error) {
	if identity == nil {
		return nil, fmt.Errorf("clientreg.ResolveOrCreate: %w", domain.ErrValidation)
	}

	client, err := s.clients.Create(ctx, &domain.Client{
		TelegramID: identity.TelegramID,
		Username:   identity.Username,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("clientreg.ResolveOrCreate: %w", err)
	}

	if profileChanged(client, identity) {
		if err := s.clients.UpdateProfile(ctx, client.ID, identity.Username, identity.FirstName, identity.LastName); err != nil {
			// The resolve itself succeeded; a stale username is tolerable.
			s.log.WarnContext(ctx, "failed to refresh client profile",
				slog.String("client_id", client.ID.String()),
				slog.String("error", err.Error()))
		} else {
			client.Username = identity.Username
			client.FirstName = identity.FirstName
			client.LastName = identity.LastName
		}
	}

	return client, nil
}

// GetByID returns the client record by its primary key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("clientreg.GetByID: %w", err)
	}
	return client, nil
}

// GetByTelegramID returns the client record for a Telegram user, if any.
func (s *Service) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error) {
	client, err := s.clients.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("clientreg.GetByTelegramID: %w", err)
	}
	return client, nil
}

// List returns all registered clients with request counts.
func (s *Service) List(ctx context.Context) ([]domain.ClientSummary, error) {
	list, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("clientreg.List: %w", err)
	}
	return list, nil
}

func profileChanged(c *domain.Client, identity *auth.Identity) bool {
	return ptrStringNotEqual(c.Username, identity.Username) ||
		ptrStringNotEqual(c.FirstName, identity.FirstName) ||
		ptrStringNotEqual(c.LastName, identity.LastName)
}

func ptrStringNotEqual(a, b *string) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}
