package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleMentor  RoleType = "MENTOR"
	RoleAdmin   RoleType = "ADMIN"
)

// ValidRole reports whether the given value is a known role.
func ValidRole(r RoleType) bool {
	switch r {
	case RoleStudent, RoleMentor, RoleAdmin:
		return true
	}
	return false
}
