// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a customer or staff account. Credentials live in Authentication records.
type User struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email       string    // Primary contact email, also the login identifier.
	FirstName   string
	LastName    string
	PhoneNumber string
	IsVerified  bool // Set once the signup or password-reset code has been confirmed.
	IsAdmin     bool // Staff accounts may manage the catalog and every order.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
}

// Roles returns the roles carried in this user's access tokens.
func (u *User) Roles() Roles {
	roles := Roles{RoleUser}
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	return roles
}
