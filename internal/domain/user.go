package domain

import "time"

// User is the domain model for shop accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    *string
	LastName     *string
	PasswordHash string
	Roles        []Role
	Verified     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
