package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type abilityProbe struct {
	Name string `json:"name" validate:"required,ability"`
}

type roleProbe struct {
	Name string `json:"name" validate:"required,rolename"`
}

func TestAbilityRule(t *testing.T) {
	t.Parallel()

	v := New()

	valid := []string{"users.view", "users.view.me", "billing.*", "audit.view"}
	for _, name := range valid {
		assert.NoError(t, v.Validate(&abilityProbe{Name: name}), name)
	}

	invalid := []string{"users", "users..view", ".users", "users.", "Users.View", "users view"}
	for _, name := range invalid {
		assert.Error(t, v.Validate(&abilityProbe{Name: name}), name)
	}
}

func TestRoleNameRule(t *testing.T) {
	t.Parallel()

	v := New()

	for _, name := range []string{"admin", "content-editor", "tier_2", "guest"} {
		assert.NoError(t, v.Validate(&roleProbe{Name: name}), name)
	}

	for _, name := range []string{"Admin", "has space", "dots.not.ok"} {
		assert.Error(t, v.Validate(&roleProbe{Name: name}), name)
	}
}

func TestValidationErrorUsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	type probe struct {
		EmailAddress string `json:"email" validate:"required,email"`
	}

	err := New().Validate(&probe{EmailAddress: "nope"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "EmailAddress")
}

func TestRequiredMessage(t *testing.T) {
	t.Parallel()

	type probe struct {
		Name string `json:"name" validate:"required"`
	}

	err := New().Validate(&probe{})
	require.Error(t, err)

	vErr := err.(*ValidationError)
	assert.Equal(t, "This field is required", vErr.Errors["name"])
}
