package services_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idm_backend/internal/auth"
	"idm_backend/internal/services/dto"
)

func TestCreateClientReturnsSecretOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, evs, err := env.clients.Create(&dto.CreateClientRequest{Name: "Web App"})
	require.NoError(t, err)
	assert.Equal(t, []string{"client.created"}, eventNames(evs))

	require.NotEmpty(t, resp.Secret)
	// The stored copy is the hash, never the plaintext.
	assert.NotEqual(t, resp.Secret, resp.Client.SecretHash)
	assert.True(t, auth.CheckPasswordHash(resp.Secret, resp.Client.SecretHash))
}

func TestIssuePersonalToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.clients.Create(&dto.CreateClientRequest{
		Name: "Personal Access Client", PersonalAccess: true,
	})
	require.NoError(t, err)

	_, _, err = env.perms.Create(&dto.CreatePermissionRequest{Name: "users.view.me"})
	require.NoError(t, err)
	_, _, err = env.roles.Create(&dto.CreateRoleRequest{
		Name: "member", Permissions: []string{"users.view.me"},
	})
	require.NoError(t, err)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email:    "owner@example.com",
		Password: "long-enough-password",
		Roles:    []string{"member"},
	})
	require.NoError(t, err)

	loaded, err := env.users.FindByID(user.ID)
	require.NoError(t, err)

	// A scope the user does not hold is refused.
	_, err = env.clients.IssuePersonalToken(loaded, &dto.IssuePersonalTokenRequest{
		Scopes: []string{"roles.manage"},
	})
	requireAppError(t, err, "Forbidden", http.StatusForbidden)

	resp, err := env.clients.IssuePersonalToken(loaded, &dto.IssuePersonalTokenRequest{
		Scopes: []string{"users.view.me"},
	})
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(testJWTSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, loaded.ID, claims.UserID)
	assert.Equal(t, []string{"users.view.me"}, claims.Scopes)
	assert.NotEmpty(t, claims.ClientID)
}

func TestIssuePersonalTokenWithoutClient(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "nobody@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	_, err = env.clients.IssuePersonalToken(user, &dto.IssuePersonalTokenRequest{
		Scopes: []string{"users.view.me"},
	})
	requireAppError(t, err, "ClientNotFound", http.StatusNotFound)
}

func TestRevokedClientNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, _, err := env.clients.Create(&dto.CreateClientRequest{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, env.clients.Revoke(resp.Client.ID))

	err = env.clients.Revoke("no-such-id")
	requireAppError(t, err, "ClientNotFound", http.StatusNotFound)
}
