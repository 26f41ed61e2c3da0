// Package identity carries the authenticated caller established by the identity provider.
//
// The booking core trusts the identity as-is; it never re-verifies tokens.
package identity

import (
	"context"
	"slices"
	"strings"

	"facility/shared/constant"
)

// RoleSet is the set of role names a subject is a member of.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet, ignoring blank names.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))

	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == constant.Empty {
			continue
		}

		set[role] = struct{}{}
	}

	return set
}

// Has reports whether the set contains role.
func (r RoleSet) Has(role string) bool {
	_, ok := r[role]

	return ok
}

// Slice returns the role names sorted.
func (r RoleSet) Slice() []string {
	roles := make([]string, 0, len(r))
	for role := range r {
		roles = append(roles, role)
	}

	slices.Sort(roles)

	return roles
}

type Identity struct {
	Subject string
	Roles   RoleSet
}

func New(subject string, roles ...string) Identity {
	return Identity{
		Subject: subject,
		Roles:   NewRoleSet(roles...),
	}
}

// HasRole is the single predicate used to query role membership.
func (i Identity) HasRole(role string) bool {
	return i.Roles.Has(role)
}

func (i Identity) IsAnonymous() bool {
	return i.Subject == constant.Empty
}

func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, constant.ContextKeyIdentity, id)
}

// FromContext returns the identity attached by the auth middleware. The second value is
// false when the request was never authenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(constant.ContextKeyIdentity).(Identity)
	if !ok || id.IsAnonymous() {
		return Identity{}, false
	}

	return id, true
}

// Subject returns the caller's subject id or an empty string.
func Subject(ctx context.Context) string {
	id, _ := FromContext(ctx)

	return id.Subject
}
