package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

// Get returns the full request projection with history for managers.
func (s *Service) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.RequestDetails, error) {
	if err := auth.Authorize(p, auth.CapViewAllRequests); err != nil {
		return nil, err
	}
	return s.details(ctx, id)
}

// GetForClient returns a request with history, only if it belongs to the
// calling client. Foreign requests are indistinguishable from missing ones.
func (s *Service) GetForClient(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.RequestDetails, error) {
	if err := auth.Authorize(p, auth.CapViewOwnRequests); err != nil {
		return nil, err
	}

	details, err := s.details(ctx, id)
	if err != nil {
		return nil, err
	}
	if details.ClientID != p.ID {
		return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	return details, nil
}

// List returns request summaries matching the filter for managers.
func (s *Service) List(ctx context.Context, p domain.Principal, filter domain.RequestFilter) ([]domain.RequestSummary, error) {
	if err := auth.Authorize(p, auth.CapViewAllRequests); err != nil {
		return nil, err
	}

	list, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("request.List: %w", err)
	}
	return list, nil
}

// ListOwn returns the calling client's requests, newest first.
func (s *Service) ListOwn(ctx context.Context, p domain.Principal) ([]domain.RequestSummary, error) {
	if err := auth.Authorize(p, auth.CapViewOwnRequests); err != nil {
		return nil, err
	}

	list, err := s.requests.ListByClient(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("request.ListOwn: %w", err)
	}
	return list, nil
}

func (s *Service) details(ctx context.Context, id uuid.UUID) (*domain.RequestDetails, error) {
	summary, err := s.requests.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.requests.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("request history: %w", err)
	}
	return &domain.RequestDetails{RequestSummary: *summary, History: history}, nil
}
