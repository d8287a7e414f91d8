package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization holds the billing requisites of a client's legal entity.
// At most one organization exists per client (unique client_id).
type Organization struct {
	ID                   uuid.UUID
	ClientID             uuid.UUID
	Name                 string
	INN                  *string
	KPP                  *string
	OGRN                 *string
	Address              *string
	SettlementAccount    *string
	BIK                  *string
	CorrespondentAccount *string
	Bank                 *string
	Director             *string
	Contract             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
