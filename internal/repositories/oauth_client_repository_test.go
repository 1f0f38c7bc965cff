package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idm_backend/internal/models"
	"idm_backend/internal/repositories"
)

func TestClientFindPersonalSkipsRevoked(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	repo := repositories.NewOAuthClientRepository(db)

	_, err := repo.FindPersonal()
	assert.ErrorIs(t, err, repositories.ErrClientNotFound)

	personal := &models.OAuthClient{Name: "Personal Access Client", PersonalAccess: true}
	require.NoError(t, repo.Create(personal))
	require.NoError(t, repo.Create(&models.OAuthClient{Name: "Web App"}))

	found, err := repo.FindPersonal()
	require.NoError(t, err)
	assert.Equal(t, personal.ID, found.ID)

	require.NoError(t, repo.Revoke(personal.ID))
	_, err = repo.FindPersonal()
	assert.ErrorIs(t, err, repositories.ErrClientNotFound)
}

func TestClientRevokeMissing(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	repo := repositories.NewOAuthClientRepository(db)

	assert.ErrorIs(t, repo.Revoke("no-such-id"), repositories.ErrClientNotFound)
}

func TestAuditLogAppendAndFilter(t *testing.T) {
	t.Parallel()

	db := setupDB(t)
	repo := repositories.NewAuditLogRepository(db)

	require.NoError(t, repo.Append(&models.AuditLog{Event: "user.created", ActorID: "u1"}))
	require.NoError(t, repo.Append(&models.AuditLog{Event: "user.updated", ActorID: "u1"}))
	require.NoError(t, repo.Append(&models.AuditLog{Event: "role.created", ActorID: ""}))

	all, total, err := repo.All(paginationAll())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	mine, total, err := repo.ByActor("u1", paginationAll())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)
}
