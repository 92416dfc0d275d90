package user

import "fmt"

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}

// Require returns ErrInsufficientPermissions unless p holds permission.
func (p Principal) Require(permission Permission) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	if !p.Can(permission) {
		return fmt.Errorf("%w: %s", ErrInsufficientPermissions, permission)
	}
	return nil
}

// Owns reports whether p is the owner of a resource belonging to userID.
func (p Principal) Owns(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}
