package managerauth

import "github.com/minicrm/backend/internal/domain"

// AuthResult is returned by Login and Bootstrap operations.
type AuthResult struct {
	Token   string
	Manager *domain.Manager
}
