package domain

import (
	"time"

	"github.com/google/uuid"
)

// Manager is a staff account that triages delivery requests through the
// admin surface. Accounts are created by the one-time bootstrap operation
// and deactivated administratively, never deleted.
type Manager struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         ManagerRole
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
