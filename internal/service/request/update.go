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

// Update mutates a request on behalf of a manager. Field edits and the
// status transition apply together or not at all, and exactly one ledger
// entry records the change: STATUS_CHANGED when the status moved, UPDATED
// otherwise. A request whose status changed under our feet is re-read and
// retried once; ErrConflict surfaces only when the retry loses as well.
func (s *Service) Update(ctx context.Context, p domain.Principal, id uuid.UUID, input UpdateInput) (*domain.RequestSummary, error) {
	if err := auth.Authorize(p, auth.CapMutateRequest); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result, err := s.updateOnce(ctx, p, id, input)
	if errors.Is(err, domain.ErrConflict) {
		// The guarded write lost a race. The retry re-reads the row, so the
		// transition is re-checked against the status that beat us.
		result, err = s.updateOnce(ctx, p, id, input)
	}
	if err != nil {
		return nil, err
	}

	summary, err := s.requests.GetSummary(ctx, result.updated.ID)
	if err != nil {
		return nil, fmt.Errorf("request.Update load summary: %w", err)
	}

	s.log.InfoContext(ctx, "request updated",
		slog.String("request_id", id.String()),
		slog.String("status", result.updated.Status.String()),
		slog.Bool("status_changed", result.statusMove))

	if result.statusMove {
		go s.notify.StatusChanged(context.WithoutCancel(ctx), summary, result.fromStatus)
	}

	return summary, nil
}

type updateResult struct {
	updated    *domain.Request
	fromStatus domain.RequestStatus
	statusMove bool
}

func (s *Service) updateOnce(ctx context.Context, p domain.Principal, id uuid.UUID, input UpdateInput) (updateResult, error) {
	var result updateResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		result.fromStatus = current.Status

		next := *current
		if input.DirectionID != nil {
			next.DirectionID = *input.DirectionID
		}
		if input.DeliverySlotID != nil {
			next.DeliverySlotID = *input.DeliverySlotID
		}
		if input.BoxesCount != nil {
			next.BoxesCount = *input.BoxesCount
		}
		if input.WeightKg != nil {
			next.WeightKg = *input.WeightKg
		}
		if input.VolumeM3 != nil {
			next.VolumeM3 = *input.VolumeM3
		}
		if input.Comment != nil {
			next.Comment = input.Comment
		}

		result.statusMove = input.Status != nil && *input.Status != current.Status
		if result.statusMove {
			if !current.Status.CanTransitionTo(*input.Status) {
				return fmt.Errorf("%s -> %s: %w", current.Status, *input.Status, domain.ErrInvalidTransition)
			}
			next.Status = *input.Status
		}

		if input.DirectionID != nil || input.DeliverySlotID != nil {
			if err := s.checkReferences(ctx, next.DirectionID, next.DeliverySlotID); err != nil {
				return err
			}
		}

		result.updated, err = s.requests.UpdateGuarded(ctx, &next, current.Status)
		if err != nil {
			return err
		}

		actor := p.Actor()
		entry := domain.HistoryEntry{
			RequestID: id,
			EventType: domain.HistoryEventUpdated,
			ActorType: actor.Type,
			ActorID:   &actor.ID,
			Comment:   input.HistoryComment,
		}
		if result.statusMove {
			from, to := result.fromStatus, result.updated.Status
			entry.EventType = domain.HistoryEventStatusChanged
			entry.FromStatus = &from
			entry.ToStatus = &to
		}
		return s.requests.AppendHistory(ctx, &entry)
	})
	if err != nil {
		return updateResult{}, err
	}
	return result, nil
}
