package auth

import "github.com/minicrm/backend/internal/domain"

// Capability is a named permission granted to a principal.
type Capability string

const (
	CapSubmitRequest       Capability = "submit-request"
	CapViewOwnRequests     Capability = "view-own-requests"
	CapAcceptConsent       Capability = "accept-consent"
	CapViewAllRequests     Capability = "view-all-requests"
	CapMutateRequest       Capability = "mutate-request"
	CapManageReferences    Capability = "manage-references"
	CapManageOrganizations Capability = "manage-organizations"
)

var clientCapabilities = []Capability{
	CapSubmitRequest,
	CapViewOwnRequests,
	CapAcceptConsent,
}

var managerCapabilities = []Capability{
	CapViewAllRequests,
	CapMutateRequest,
	CapManageReferences,
	CapManageOrganizations,
}

// CapabilitiesFor maps a resolved principal to its capability set. Both
// manager roles carry the same set; admin is not subdivided further here.
func CapabilitiesFor(p domain.Principal) []Capability {
	switch p.Kind {
	case domain.PrincipalClient:
		return clientCapabilities
	case domain.PrincipalManager:
		return managerCapabilities
	}
	return nil
}

// Authorize gates an operation on the principal's capability set. It is a
// pure lookup: the principal must come from a verified credential, never
// from a client-supplied identity claim.
// Returns domain.ErrForbidden when the capability is not granted.
func Authorize(p domain.Principal, required Capability) error {
	for _, c := range CapabilitiesFor(p) {
		if c == required {
			return nil
		}
	}
	return domain.ErrForbidden
}
