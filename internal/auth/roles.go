// Package auth holds the caller identity carried by a request and the role
// hierarchy used to authorize schedule operations.
package auth

import (
	"context"
	"strings"
)

// Role is a ranked user role. Higher roles inherit every permission of the
// lower ones.
type Role string

const (
	RoleViewer  Role = "VIEWER"
	RoleSite    Role = "SITE"
	RolePM      Role = "PM"
	RoleFinance Role = "FINANCE"
	RoleAdmin   Role = "ADMIN"
)

var rank = map[Role]int{
	RoleViewer:  0,
	RoleSite:    1,
	RolePM:      2,
	RoleFinance: 3,
	RoleAdmin:   4,
}

// AllRoles lists every role from lowest to highest.
var AllRoles = []Role{RoleViewer, RoleSite, RolePM, RoleFinance, RoleAdmin}

// ParseRole normalizes s. Unknown values resolve to RoleViewer.
func ParseRole(s string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rank[r]; ok {
		return r
	}
	return RoleViewer
}

// Rank returns the position of r in the hierarchy, -1 for unknown roles.
func (r Role) Rank() int {
	if n, ok := rank[r]; ok {
		return n
	}
	return -1
}

// HasRequiredRole reports whether role satisfies allowed. An empty list
// allows everyone; otherwise role must rank at least as high as one entry.
// Entries outside the hierarchy never match, so an unknown role in an
// allow-list grants nothing.
func HasRequiredRole(role Role, allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	level := role.Rank()
	for _, a := range allowed {
		if n := a.Rank(); n >= 0 && n <= level {
			return true
		}
	}
	return false
}

// Allow-lists for the schedule routes.
var (
	ReadRoles   = AllRoles
	CreateRoles = []Role{RolePM, RoleAdmin}
	UpdateRoles = []Role{RoleSite, RolePM, RoleAdmin}
	RemoveRoles = []Role{RolePM, RoleAdmin}
)

// Principal is the authenticated caller.
type Principal struct {
	UserID     string
	Role       Role
	OrgID      string
	ProjectIDs []string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
