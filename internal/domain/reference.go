package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction is a delivery destination reference record.
type Direction struct {
	ID        uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
}

// DeliverySlot is a bookable delivery date, optionally bound to a single
// direction. A slot with a nil DirectionID is valid for any direction.
type DeliverySlot struct {
	ID          uuid.UUID
	DirectionID *uuid.UUID
	Date        time.Time
	Active      bool
	CreatedAt   time.Time
}

// MatchesDirection reports whether the slot can serve the given direction.
func (s *DeliverySlot) MatchesDirection(directionID uuid.UUID) bool {
	return s.DirectionID == nil || *s.DirectionID == directionID
}
