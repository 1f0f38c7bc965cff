package access

import (
	"idm_backend/internal/models"
)

// DefaultRoleFinder looks up the role configured as default. A miss is
// reported as (nil, nil): having no default role is not an error, the
// check simply fails closed.
type DefaultRoleFinder interface {
	FindDefault() (*models.Role, error)
}

// Resolver resolves the acting subject and answers permission checks.
// One Resolver is built per request; the default role is looked up
// lazily at most once and cached for the resolver's lifetime, so the
// cache never leaks across requests.
type Resolver struct {
	roles DefaultRoleFinder

	fetched     bool
	defaultRole *models.Role
}

func NewResolver(roles DefaultRoleFinder) *Resolver {
	return &Resolver{roles: roles}
}

// SubjectFor returns the subject permission checks run against: the
// user when authenticated, otherwise the default role, otherwise nil.
func (r *Resolver) SubjectFor(user *models.User) Subject {
	if user != nil {
		return user
	}
	role := r.lookupDefaultRole()
	if role == nil {
		return nil
	}
	return role
}

// IsAllowed reports whether the subject holds the named ability.
// Gate-level concerns such as resource ownership are evaluated by the
// call sites, not here.
func (r *Resolver) IsAllowed(sub Subject, ability string) bool {
	return Granted(sub, ability)
}

func (r *Resolver) lookupDefaultRole() *models.Role {
	if !r.fetched {
		r.fetched = true
		role, err := r.roles.FindDefault()
		if err == nil {
			r.defaultRole = role
		}
	}
	return r.defaultRole
}
