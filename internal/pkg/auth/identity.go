package auth

import (
	"github.com/edulink/mentorhub/internal/app/models"
)

// Identity is the authenticated caller, carried explicitly through the call
// chain instead of loose context values. It is placed into the request
// context by the auth middleware and handed to services as an argument.
type Identity struct {
	UserID int64
	Email  string
	Role   models.RoleType
}

// IsMentor reports whether the identity holds the MENTOR role.
func (i Identity) IsMentor() bool {
	return i.Role == models.RoleMentor
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}
