package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"idm_backend/database"
	"idm_backend/internal/auth"
	"idm_backend/internal/config"
	"idm_backend/internal/email"
	"idm_backend/internal/events"
	"idm_backend/internal/handlers"
	"idm_backend/internal/listeners"
	"idm_backend/internal/logger"
	"idm_backend/internal/middleware"
	"idm_backend/internal/models"
	"idm_backend/internal/repositories"
	"idm_backend/internal/routes"
	"idm_backend/internal/services"
	"idm_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := Seed(gormDB, cfg); err != nil {
		logger.Fatal("Seeding failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	userRepo := repositories.NewUserRepository(gormDB)
	roleRepo := repositories.NewRoleRepository(gormDB)

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestID())
	ginRouter.Use(middleware.Logging())
	ginRouter.Use(middleware.Authenticate(cfg.JWT.Secret, userRepo, roleRepo))

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	roleRepo := repositories.NewRoleRepository(gormDB)
	permRepo := repositories.NewPermissionRepository(gormDB)
	clientRepo := repositories.NewOAuthClientRepository(gormDB)
	auditRepo := repositories.NewAuditLogRepository(gormDB)

	validate := validator.New()

	emailProvider := buildEmailProvider(cfg)

	dispatcher := events.NewDispatcher(
		listeners.NewEmailListener(emailProvider),
		listeners.NewAuditListener(auditRepo),
	)

	jwtTTL := time.Duration(cfg.JWT.TTLMinutes) * time.Minute
	resetTTL := time.Duration(cfg.Auth.ResetTokenTTLMinutes) * time.Minute

	userService := services.NewUserService(userRepo, roleRepo, permRepo, validate, services.UserServiceConfig{
		JWTSecret:     cfg.JWT.Secret,
		JWTTTL:        jwtTTL,
		ResetTokenTTL: resetTTL,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	roleService := services.NewRoleService(roleRepo, permRepo, validate)
	permService := services.NewPermissionService(permRepo, validate)
	clientService := services.NewClientService(clientRepo, validate, services.ClientServiceConfig{
		JWTSecret:  cfg.JWT.Secret,
		JWTTTL:     jwtTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	auditService := services.NewAuditService(auditRepo)

	return &services.ServiceContainer{
		UserService:       userService,
		RoleService:       roleService,
		PermissionService: permService,
		ClientService:     clientService,
		AuditService:      auditService,
		EmailProvider:     emailProvider,
		Dispatcher:        dispatcher,
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler()

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, sc.UserService, sc.Dispatcher),
		UserHandler:       handlers.NewUserHandler(baseHandler, sc.UserService, sc.Dispatcher),
		RoleHandler:       handlers.NewRoleHandler(baseHandler, sc.RoleService, sc.Dispatcher),
		PermissionHandler: handlers.NewPermissionHandler(baseHandler, sc.PermissionService, sc.Dispatcher),
		ClientHandler:     handlers.NewClientHandler(baseHandler, sc.ClientService, sc.Dispatcher),
		AuditHandler:      handlers.NewAuditHandler(baseHandler, sc.AuditService),
	}
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host not configured, outgoing email is logged only")
		return email.NewMockProvider()
	}

	provider, err := email.NewSMTPProvider(email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
		FromName: cfg.Email.FromName,
		BaseURL:  cfg.Email.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize SMTP provider", "error", err)
	}
	return provider
}

// baselinePermissions is the ability set granted to the seeded admin
// role. Module wildcards cover the finer-grained abilities.
var baselinePermissions = []string{
	"users.*",
	"roles.*",
	"permissions.*",
	"clients.*",
	"audit.*",
}

// Seed ensures the default role, the admin role and user, and the
// personal access client exist. Safe to run on every start.
func Seed(db *gorm.DB, cfg *config.Config) error {
	roleRepo := repositories.NewRoleRepository(db)
	permRepo := repositories.NewPermissionRepository(db)
	clientRepo := repositories.NewOAuthClientRepository(db)

	defaultRole, err := roleRepo.FirstOrCreate(&models.Role{
		Name:        cfg.Auth.DefaultRole,
		DisplayName: "Default",
		Description: "Assumed by unauthenticated subjects",
	})
	if err != nil {
		return fmt.Errorf("seed default role: %w", err)
	}
	if !defaultRole.IsDefault {
		if err := roleRepo.SetDefault(defaultRole.ID); err != nil {
			return fmt.Errorf("mark default role: %w", err)
		}
	}

	adminRole, err := roleRepo.FirstOrCreate(&models.Role{
		Name:        "admin",
		DisplayName: "Administrator",
	})
	if err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}

	for _, name := range baselinePermissions {
		perm, err := permRepo.FirstOrCreate(&models.Permission{Name: name})
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
		held := false
		for _, p := range adminRole.Permissions {
			if p.Name == perm.Name {
				held = true
				break
			}
		}
		if !held {
			if err := roleRepo.AddPermission(adminRole, perm); err != nil {
				return fmt.Errorf("attach permission %s: %w", name, err)
			}
		}
	}

	if _, err := clientRepo.FindPersonal(); err != nil {
		if !errors.Is(err, repositories.ErrClientNotFound) {
			return fmt.Errorf("find personal client: %w", err)
		}
		if err := clientRepo.Create(&models.OAuthClient{
			Name:           "Personal Access Client",
			PersonalAccess: true,
		}); err != nil {
			return fmt.Errorf("seed personal client: %w", err)
		}
	}

	return seedFirstAdmin(db, cfg, adminRole)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config, adminRole *models.Role) error {
	adminEmail := cfg.Seed.AdminEmail
	adminPassword := cfg.Seed.AdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for admin user: %w", result.Error)
	}

	hash, err := auth.HashPassword(adminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		VerifiedAt:   &now,
		Roles:        []models.Role{*adminRole},
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
