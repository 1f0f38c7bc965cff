package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"idm_backend/internal/models"
)

type fakeSubject struct {
	id        string
	abilities []string
}

func (s fakeSubject) Abilities() []string { return s.abilities }
func (s fakeSubject) SubjectID() string   { return s.id }

func TestGrantedLiteral(t *testing.T) {
	t.Parallel()

	sub := fakeSubject{abilities: []string{"users.view.me"}}
	assert.True(t, Granted(sub, "users.view.me"))
	assert.False(t, Granted(sub, "users.view.all"))
	assert.False(t, Granted(sub, "users.delete"))
}

func TestGrantedModuleWildcard(t *testing.T) {
	t.Parallel()

	sub := fakeSubject{abilities: []string{"billing.*"}}
	assert.True(t, Granted(sub, "billing.invoices.view"))
	assert.True(t, Granted(sub, "billing.pay"))
	assert.False(t, Granted(sub, "users.view.me"))
}

func TestGrantedEdgeCases(t *testing.T) {
	t.Parallel()

	assert.False(t, Granted(nil, "users.view.me"))
	assert.False(t, Granted(fakeSubject{abilities: []string{"users.*"}}, ""))
	// A held wildcard only matches abilities inside its module.
	assert.False(t, Granted(fakeSubject{abilities: []string{"users.*"}}, "users"))
}

func TestAllowsOwn(t *testing.T) {
	t.Parallel()

	all := fakeSubject{id: "u1", abilities: []string{"users.view.all"}}
	me := fakeSubject{id: "u1", abilities: []string{"users.view.me"}}
	none := fakeSubject{id: "u1", abilities: []string{}}

	assert.True(t, AllowsOwn(all, "users.view", "someone-else"))
	assert.True(t, AllowsOwn(me, "users.view", "u1"))
	assert.False(t, AllowsOwn(me, "users.view", "someone-else"))
	assert.False(t, AllowsOwn(none, "users.view", "u1"))
}

func TestAllowsOwnAnonymousNeverOwns(t *testing.T) {
	t.Parallel()

	// Role subjects report an empty SubjectID and must not pass the
	// ownership comparison, even against an empty owner id.
	role := fakeSubject{id: "", abilities: []string{"users.view.me"}}
	assert.False(t, AllowsOwn(role, "users.view", ""))
}

func TestScopeCovers(t *testing.T) {
	t.Parallel()

	assert.True(t, ScopeCovers([]string{"*"}, "anything.at.all"))
	assert.True(t, ScopeCovers([]string{"users.view.me"}, "users.view.me"))
	assert.True(t, ScopeCovers([]string{"users.*"}, "users.view.me"))
	assert.False(t, ScopeCovers([]string{"roles.*"}, "users.view.me"))
	assert.False(t, ScopeCovers(nil, "users.view.me"))
}

func TestAllowedWithScopesConjunction(t *testing.T) {
	t.Parallel()

	sub := fakeSubject{abilities: []string{"users.view.me"}}

	assert.True(t, AllowedWithScopes(sub, "users.view.me", []string{"*"}))
	// RBAC grant present but the token scope does not cover it.
	assert.False(t, AllowedWithScopes(sub, "users.view.me", []string{"roles.*"}))
	// Scope covers it but the subject lacks the grant.
	assert.False(t, AllowedWithScopes(sub, "users.delete", []string{"*"}))
}

type fakeRoleFinder struct {
	role  *models.Role
	err   error
	calls int
}

func (f *fakeRoleFinder) FindDefault() (*models.Role, error) {
	f.calls++
	return f.role, f.err
}

func TestResolverSubjectForUser(t *testing.T) {
	t.Parallel()

	finder := &fakeRoleFinder{}
	r := NewResolver(finder)

	user := &models.User{Permissions: []models.Permission{{Name: "users.view.me"}}}
	sub := r.SubjectFor(user)
	assert.Equal(t, user, sub)
	assert.Zero(t, finder.calls)
}

func TestResolverFallsBackToDefaultRole(t *testing.T) {
	t.Parallel()

	role := &models.Role{
		Name:        "guest",
		Permissions: []models.Permission{{Name: "castings.view"}},
	}
	finder := &fakeRoleFinder{role: role}
	r := NewResolver(finder)

	sub := r.SubjectFor(nil)
	assert.True(t, r.IsAllowed(sub, "castings.view"))
	assert.False(t, r.IsAllowed(sub, "users.delete"))
}

func TestResolverCachesDefaultRoleLookup(t *testing.T) {
	t.Parallel()

	finder := &fakeRoleFinder{role: &models.Role{Name: "guest"}}
	r := NewResolver(finder)

	r.SubjectFor(nil)
	r.SubjectFor(nil)
	r.SubjectFor(nil)
	assert.Equal(t, 1, finder.calls)
}

func TestResolverFailsClosedWithoutDefaultRole(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeRoleFinder{})
	sub := r.SubjectFor(nil)
	assert.Nil(t, sub)
	assert.False(t, r.IsAllowed(sub, "castings.view"))
}

func TestResolverFailsClosedOnLookupError(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeRoleFinder{err: errors.New("db down")})
	sub := r.SubjectFor(nil)
	assert.Nil(t, sub)
}
