package domain

import "github.com/google/uuid"

// PrincipalKind discriminates authenticated caller types.
type PrincipalKind string

const (
	PrincipalClient  PrincipalKind = "client"
	PrincipalManager PrincipalKind = "manager"
)

// Principal is the authenticated identity on whose behalf an operation
// executes. It is ephemeral: constructed per call from a verified credential
// (init data for clients, a session token for managers), never persisted.
type Principal struct {
	Kind PrincipalKind
	// ID is the Client or Manager primary key.
	ID uuid.UUID
	// Role is set for manager principals only.
	Role ManagerRole
}

// ClientPrincipal builds a principal for a resolved client.
func ClientPrincipal(id uuid.UUID) Principal {
	return Principal{Kind: PrincipalClient, ID: id}
}

// ManagerPrincipal builds a principal for a validated manager session.
func ManagerPrincipal(id uuid.UUID, role ManagerRole) Principal {
	return Principal{Kind: PrincipalManager, ID: id, Role: role}
}

// Actor converts the principal into a history-ledger actor.
func (p Principal) Actor() Actor {
	if p.Kind == PrincipalManager {
		return ManagerActor(p.ID)
	}
	return ClientActor(p.ID)
}
