package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a registered web-app or bot user. A client is created the first
// time its Telegram ID is seen and is never deleted; only consent fields are
// mutated afterwards.
type Client struct {
	ID                uuid.UUID
	TelegramID        int64
	Username          *string
	FirstName         *string
	LastName          *string
	ConsentVersion    *string
	ConsentAcceptedAt *time.Time
	CreatedAt         time.Time
}

// DisplayName returns the best human-readable name available for the client.
func (c *Client) DisplayName() string {
	if c.Username != nil && *c.Username != "" {
		return *c.Username
	}
	name := ""
	if c.FirstName != nil {
		name = *c.FirstName
	}
	if c.LastName != nil && *c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *c.LastName
	}
	return name
}

// HasConsent reports whether the client accepted the personal-data consent.
func (c *Client) HasConsent() bool { return c.ConsentAcceptedAt != nil }

// ClientSummary is the manager-facing listing projection of a client.
type ClientSummary struct {
	Client
	RequestsCount int
}
