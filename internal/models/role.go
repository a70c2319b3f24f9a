package models

import "strings"

// Role is the closed set of access tiers recognised by the API. Every
// authorisation decision (route gating and query scoping alike) derives from
// this single enumeration.
type Role string

const (
	// RoleSuperAdmin sees and manages every church.
	RoleSuperAdmin Role = "super_admin"
	// RolePastor administers a single church and its people.
	RolePastor Role = "pastor"
	// RoleServant operates within a department and only sees their own records.
	RoleServant Role = "servant"
)

// ParseRole normalises a raw role string into a Role. Unrecognised values are
// returned lower-cased so callers can fail closed on them explicitly.
func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RolePastor, RoleServant:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
