package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request is a client's delivery request. The number is assigned once at
// creation and is unique and strictly increasing across the whole system.
// Status only moves along RequestStatus.CanTransitionTo edges.
type Request struct {
	ID             uuid.UUID
	Number         int64
	ClientID       uuid.UUID
	DirectionID    uuid.UUID
	DeliverySlotID uuid.UUID
	BoxesCount     int
	WeightKg       float64
	VolumeM3       float64
	Comment        *string
	Status         RequestStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HistoryEntry is one record of the append-only request audit ledger.
// Exactly one entry is written per create and per update call.
type HistoryEntry struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	EventType  HistoryEventType
	FromStatus *RequestStatus
	ToStatus   *RequestStatus
	ActorType  ActorType
	ActorID    *uuid.UUID
	Comment    *string
	CreatedAt  time.Time
}

// Actor identifies the principal performing a request mutation, for the
// history ledger.
type Actor struct {
	Type ActorType
	ID   uuid.UUID
}

// ClientActor builds an Actor for a client mutation.
func ClientActor(id uuid.UUID) Actor { return Actor{Type: ActorTypeClient, ID: id} }

// ManagerActor builds an Actor for a manager mutation.
func ManagerActor(id uuid.UUID) Actor { return Actor{Type: ActorTypeManager, ID: id} }

// RequestSummary is the listing projection joining reference and client data.
type RequestSummary struct {
	Request
	DirectionName  string
	DeliveryDate   time.Time
	TelegramID     int64
	ClientUsername *string
}

// RequestDetails is the full projection with history ordered newest-first.
type RequestDetails struct {
	RequestSummary
	History []HistoryEntry
}

// RequestFilter narrows manager-facing request listings. Zero values mean
// "no restriction". SearchText matches the client username or Telegram ID.
type RequestFilter struct {
	Status      *RequestStatus
	DirectionID *uuid.UUID
	SearchText  string
}
