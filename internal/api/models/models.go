package models

import "github.com/aimarketer/aimarketer/internal/database"

// User is the identity stored in the session at login time.
type User struct {
	ID       uint
	Username string
	Role     database.Role
}

// IsAdmin reports whether the session role is exactly admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == database.RoleAdmin
}
