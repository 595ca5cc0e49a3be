// Package entity contains the storefront's business objects.
package entity

import "slices"

// Role is carried in access tokens and checked by the admin-only routes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin" // Staff: catalog management, every order, reports.
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Roles []Role

func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings is the JWT claim form of rs.
func (rs Roles) ToStrings() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.String())
	}

	return out
}

// RolesFromStrings parses a JWT roles claim, dropping unknown names.
func RolesFromStrings(ss []string) Roles {
	out := make(Roles, 0, len(ss))
	for _, s := range ss {
		if role := Role(s); role.IsValid() {
			out = append(out, role)
		}
	}

	return out
}
