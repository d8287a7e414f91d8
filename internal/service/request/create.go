package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

// Create submits a new delivery request on behalf of a client. The request
// number comes from the shared sequence; the row insert, number assignment
// and the CREATED ledger entry commit atomically. A lost race on the unique
// number constraint is retried once with a fresh number.
func (s *Service) Create(ctx context.Context, p domain.Principal, input CreateInput) (*domain.RequestSummary, error) {
	if err := auth.Authorize(p, auth.CapSubmitRequest); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, input.DirectionID, input.DeliverySlotID); err != nil {
		return nil, err
	}

	created, err := s.createWithNumber(ctx, p, input)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Another transaction committed our reserved number first. One more
		// nextval cannot collide with anything already committed.
		created, err = s.createWithNumber(ctx, p, input)
	}
	if err != nil {
		return nil, err
	}

	summary, err := s.requests.GetSummary(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("request.Create load summary: %w", err)
	}

	s.log.InfoContext(ctx, "request created",
		slog.String("request_id", created.ID.String()),
		slog.Int64("number", created.Number))

	go s.notify.RequestCreated(context.WithoutCancel(ctx), summary)

	return summary, nil
}

func (s *Service) createWithNumber(ctx context.Context, p domain.Principal, input CreateInput) (*domain.Request, error) {
	var created *domain.Request
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		number, err := s.seq.NextRequestNumber(ctx)
		if err != nil {
			return fmt.Errorf("reserve number: %w", err)
		}

		created, err = s.requests.Create(ctx, &domain.Request{
			Number:         number,
			ClientID:       p.ID,
			DirectionID:    input.DirectionID,
			DeliverySlotID: input.DeliverySlotID,
			BoxesCount:     input.BoxesCount,
			WeightKg:       input.WeightKg,
			VolumeM3:       input.VolumeM3,
			Comment:        input.Comment,
			Status:         domain.RequestStatusOpen,
		})
		if err != nil {
			return err
		}

		open := domain.RequestStatusOpen
		actor := p.Actor()
		return s.requests.AppendHistory(ctx, &domain.HistoryEntry{
			RequestID: created.ID,
			EventType: domain.HistoryEventCreated,
			ToStatus:  &open,
			ActorType: actor.Type,
			ActorID:   &actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkReferences verifies that the direction and the slot exist, are active
// and fit together.
func (s *Service) checkReferences(ctx context.Context, directionID, slotID uuid.UUID) error {
	direction, err := s.refs.GetDirection(ctx, directionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("direction: %w", domain.ErrInvalidReference)
		}
		return fmt.Errorf("request get direction: %w", err)
	}
	if !direction.Active {
		return fmt.Errorf("direction is inactive: %w", domain.ErrInvalidReference)
	}

	slot, err := s.refs.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delivery slot: %w", domain.ErrInvalidReference)
		}
		return fmt.Errorf("request get slot: %w", err)
	}
	if !slot.Active {
		return fmt.Errorf("delivery slot is inactive: %w", domain.ErrInvalidReference)
	}
	if !slot.MatchesDirection(direction.ID) {
		return fmt.Errorf("delivery slot serves another direction: %w", domain.ErrInvalidReference)
	}

	return nil
}
