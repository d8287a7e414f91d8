package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

// refRepo defines the reference data repository interface needed by the service.
type refRepo interface {
	CreateDirection(ctx context.Context, name string) (*domain.Direction, error)
	GetDirection(ctx context.Context, id uuid.UUID) (*domain.Direction, error)
	ListDirections(ctx context.Context, activeOnly bool) ([]domain.Direction, error)
	SetDirectionActive(ctx context.Context, id uuid.UUID, active bool) error
	CreateSlot(ctx context.Context, directionID *uuid.UUID, date time.Time) (*domain.DeliverySlot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*domain.DeliverySlot, error)
	ListSlots(ctx context.Context, directionID *uuid.UUID, activeOnly bool) ([]domain.DeliverySlot, error)
	SetSlotActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

// Service manages directions and delivery slots. Reads are open to any
// authenticated caller; mutations require the manage-references capability.
type Service struct {
	log  *slog.Logger
	refs refRepo
}

// NewService creates a new reference data service instance.
func NewService(logger *slog.Logger, refs refRepo) *Service {
	return &Service{
		log:  logger.With("service", "refdata"),
		refs: refs,
	}
}

// CreateDirection adds a new delivery direction.
func (s *Service) CreateDirection(ctx context.Context, p domain.Principal, name string) (*domain.Direction, error) {
	if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "name", Message: "must be 1..200 characters"},
		}}
	}

	direction, err := s.refs.CreateDirection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("refdata.CreateDirection: %w", err)
	}

	s.log.InfoContext(ctx, "direction created",
		slog.String("direction_id", direction.ID.String()),
		slog.String("name", direction.Name))
	return direction, nil
}

// ListDirections lists directions. Non-managers only ever see active ones.
func (s *Service) ListDirections(ctx context.Context, p domain.Principal, includeInactive bool) ([]domain.Direction, error) {
	if includeInactive {
		if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
			return nil, err
		}
	}
	list, err := s.refs.ListDirections(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("refdata.ListDirections: %w", err)
	}
	return list, nil
}

// SetDirectionActive toggles a direction. Deactivation hides it from new
// requests without touching existing ones.
func (s *Service) SetDirectionActive(ctx context.Context, p domain.Principal, id uuid.UUID, active bool) error {
	if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
		return err
	}
	if err := s.refs.SetDirectionActive(ctx, id, active); err != nil {
		return fmt.Errorf("refdata.SetDirectionActive: %w", err)
	}

	s.log.InfoContext(ctx, "direction toggled",
		slog.String("direction_id", id.String()),
		slog.Bool("active", active))
	return nil
}

// CreateSlot adds a delivery slot. A nil directionID makes the slot valid
// for any direction.
func (s *Service) CreateSlot(ctx context.Context, p domain.Principal, directionID *uuid.UUID, date time.Time) (*domain.DeliverySlot, error) {
	if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "date", Message: "required"},
		}}
	}

	slot, err := s.refs.CreateSlot(ctx, directionID, date)
	if err != nil {
		return nil, fmt.Errorf("refdata.CreateSlot: %w", err)
	}

	s.log.InfoContext(ctx, "delivery slot created",
		slog.String("slot_id", slot.ID.String()))
	return slot, nil
}

// ListSlots lists delivery slots, optionally narrowed to one direction.
// Non-managers only ever see active ones.
func (s *Service) ListSlots(ctx context.Context, p domain.Principal, directionID *uuid.UUID, includeInactive bool) ([]domain.DeliverySlot, error) {
	if includeInactive {
		if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
			return nil, err
		}
	}
	list, err := s.refs.ListSlots(ctx, directionID, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("refdata.ListSlots: %w", err)
	}
	return list, nil
}

// SetSlotActive toggles a delivery slot.
func (s *Service) SetSlotActive(ctx context.Context, p domain.Principal, id uuid.UUID, active bool) error {
	if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
		return err
	}
	if err := s.refs.SetSlotActive(ctx, id, active); err != nil {
		return fmt.Errorf("refdata.SetSlotActive: %w", err)
	}

	s.log.InfoContext(ctx, "delivery slot toggled",
		slog.String("slot_id", id.String()),
		slog.Bool("active", active))
	return nil
}

// DeleteSlot removes an unused delivery slot. Slots referenced by requests
// cannot be removed; deactivate them instead.
func (s *Service) DeleteSlot(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if err := auth.Authorize(p, auth.CapManageReferences); err != nil {
		return err
	}
	if err := s.refs.DeleteSlot(ctx, id); err != nil {
		return fmt.Errorf("refdata.DeleteSlot: %w", err)
	}

	s.log.InfoContext(ctx, "delivery slot deleted",
		slog.String("slot_id", id.String()))
	return nil
}
