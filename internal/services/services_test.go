package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"idm_backend/database"
	"idm_backend/internal/repositories"
	"idm_backend/internal/services"
	"idm_backend/internal/validator"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db       *gorm.DB
	users    services.UserService
	roles    services.RoleService
	perms    services.PermissionService
	clients  services.ClientService
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
	permRepo repositories.PermissionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	permRepo := repositories.NewPermissionRepository(db)
	clientRepo := repositories.NewOAuthClientRepository(db)
	validate := validator.New()

	return &testEnv{
		db: db,
		users: services.NewUserService(userRepo, roleRepo, permRepo, validate, services.UserServiceConfig{
			JWTSecret:     testJWTSecret,
			JWTTTL:        time.Hour,
			ResetTokenTTL: time.Hour,
			BcryptCost:    4,
		}),
		roles: services.NewRoleService(roleRepo, permRepo, validate),
		perms: services.NewPermissionService(permRepo, validate),
		clients: services.NewClientService(clientRepo, validate, services.ClientServiceConfig{
			JWTSecret:  testJWTSecret,
			JWTTTL:     time.Hour,
			BcryptCost: 4,
		}),
		userRepo: userRepo,
		roleRepo: roleRepo,
		permRepo: permRepo,
	}
}
