package services

import (
	"errors"
	"time"

	"idm_backend/internal/auth"
	"idm_backend/internal/events"
	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
	"idm_backend/internal/repositories"
	"idm_backend/internal/services/dto"
	"idm_backend/internal/token"
	"idm_backend/internal/validator"
	"idm_backend/pkg/apperrors"
)

// UserService owns the user lifecycle: registration, email
// verification and password reset, plus role/permission assignment.
// Mutating operations return the domain events they produced; the
// caller is responsible for dispatching them.
type UserService interface {
	All(p pagination.Params) (*pagination.Result, error)
	Create(req *dto.CreateUserRequest) (*models.User, []events.Event, error)
	Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error)
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(id string, req *dto.UpdateUserRequest) (*models.User, []events.Event, error)
	Delete(id string) error

	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	ResendVerification(email string) ([]events.Event, error)
	VerifyEmail(userID, tok string) ([]events.Event, error)
	RequestPasswordReset(email string) ([]events.Event, error)
	ResetPassword(userID, tok, newPassword string) ([]events.Event, error)

	SetRoles(userID string, roleNames []string) (*models.User, error)
	AssignRole(userID, roleName string) error
	RevokeRole(userID, roleName string) error
	SetPermissions(userID string, permNames []string) (*models.User, error)
	GrantPermission(userID, permName string) error
	RevokePermission(userID, permName string) error
}

type UserServiceConfig struct {
	JWTSecret     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
	permRepo repositories.PermissionRepository
	validate *validator.Validator
	cfg      UserServiceConfig
}

func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	permRepo repositories.PermissionRepository,
	validate *validator.Validator,
	cfg UserServiceConfig,
) UserService {
	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &UserServiceImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
		permRepo: permRepo,
		validate: validate,
		cfg:      cfg,
	}
}

func (s *UserServiceImpl) All(p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.All(p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(users, total, p)
	return &result, nil
}

func (s *UserServiceImpl) Create(req *dto.CreateUserRequest) (*models.User, []events.Event, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, nil, asCreateError("User", err)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	user := &models.User{
		Email:                  req.Email,
		PasswordHash:           hash,
		EmailVerificationToken: token.GenerateEmailVerification(req.Email),
	}

	// Attach requested roles in memory so a creation failure leaves no
	// orphaned pivot rows behind.
	for _, name := range req.Roles {
		role, err := s.roleRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, repositories.ErrRoleNotFound) {
				return nil, nil, apperrors.CannotCreate("User",
					map[string]string{"roles": "Unknown role: " + name})
			}
			return nil, nil, apperrors.Internal(err)
		}
		s.userRepo.StageRole(user, role)
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, nil, apperrors.CannotCreate("User",
				map[string]string{"email": "This email is already registered"})
		}
		return nil, nil, apperrors.Internal(err)
	}

	evs := []events.Event{
		events.UserCreated{User: user},
		events.VerificationRequested{User: user, Email: user.Email, Token: user.EmailVerificationToken},
	}
	return user, evs, nil
}

func (s *UserServiceImpl) Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.Find(param, search, regex, p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(users, total, p)
	return &result, nil
}

func (s *UserServiceImpl) FindByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *UserServiceImpl) FindByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *UserServiceImpl) Update(id string, req *dto.UpdateUserRequest) (*models.User, []events.Event, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, nil, asUpdateError("User", err)
	}

	user, err := s.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	changed := make(map[string]interface{})

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.EmailTaken(*req.Email, user.ID)
		if err != nil {
			return nil, nil, apperrors.Internal(err)
		}
		if taken {
			return nil, nil, apperrors.CannotUpdate("User",
				map[string]string{"email": "This email is already registered"})
		}

		// A changed address must be re-verified; issue a fresh token
		// for it.
		user.Email = *req.Email
		user.VerifiedAt = nil
		user.EmailVerificationToken = token.GenerateEmailVerification(*req.Email)
		changed["email"] = *req.Email
	}

	if len(changed) == 0 {
		return user, nil, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	evs := []events.Event{events.UserUpdated{User: user, Changed: changed}}
	if _, ok := changed["email"]; ok {
		evs = append(evs, events.VerificationRequested{
			User: user, Email: user.Email, Token: user.EmailVerificationToken,
		})
	}
	return user, evs, nil
}

func (s *UserServiceImpl) Delete(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *UserServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		// Same answer for unknown email and bad password.
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	if !user.IsVerified() {
		return nil, apperrors.Forbidden("User not verified")
	}

	// The access token's scopes mirror the user's abilities at login
	// time; authorization later requires both sides to agree.
	accessToken, err := auth.GenerateAccessToken(
		s.cfg.JWTSecret, user.ID, "", user.Abilities(), s.cfg.JWTTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &dto.LoginResponse{AccessToken: accessToken, User: user}, nil
}

// ResendVerification reissues the verification token. It is the
// recovery path for a verification email lost between token save and
// delivery.
func (s *UserServiceImpl) ResendVerification(email string) ([]events.Event, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}

	if user.IsVerified() {
		return nil, apperrors.CannotUpdate("User",
			map[string]string{"email": "This email is already verified"})
	}

	user.EmailVerificationToken = token.GenerateEmailVerification(user.Email)
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	return []events.Event{events.VerificationRequested{
		User: user, Email: user.Email, Token: user.EmailVerificationToken,
	}}, nil
}

// VerifyEmail consumes the verification token. The candidate must be
// non-empty, decodable, and byte-identical to the stored copy; a
// stale or foreign token is rejected even if it decodes fine.
func (s *UserServiceImpl) VerifyEmail(userID, tok string) ([]events.Event, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if tok == "" || user.EmailVerificationToken == "" || tok != user.EmailVerificationToken {
		return nil, apperrors.InvalidEmailVerificationToken()
	}

	payload := token.DecodeEmailVerification(tok)
	if payload == nil {
		return nil, apperrors.InvalidEmailVerificationToken()
	}

	// The token may confirm an address change; make sure no concurrent
	// signup claimed the address since the token was issued.
	taken, err := s.userRepo.EmailTaken(payload.Email, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.CannotUpdate("User",
			map[string]string{"email": "This email is already registered"})
	}

	oldEmail := user.Email
	now := time.Now()

	user.Email = payload.Email
	user.VerifiedAt = &now
	user.EmailVerificationToken = ""

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	return []events.Event{events.EmailVerified{
		User: user, OldEmail: oldEmail, NewEmail: user.Email,
	}}, nil
}

func (s *UserServiceImpl) RequestPasswordReset(email string) ([]events.Event, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal(err)
	}

	user.PasswordResetToken = token.GeneratePasswordReset(s.cfg.ResetTokenTTL)
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	return []events.Event{events.PasswordResetRequested{
		User: user, Token: user.PasswordResetToken,
	}}, nil
}

// ResetPassword consumes the reset token. Check order is part of the
// contract: token identity first, then expiry, then password strength.
// Each failure mode is a distinct error kind.
func (s *UserServiceImpl) ResetPassword(userID, tok, newPassword string) ([]events.Event, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if tok == "" || user.PasswordResetToken == "" || tok != user.PasswordResetToken {
		return nil, apperrors.InvalidPasswordResetToken()
	}

	payload := token.DecodePasswordReset(tok)
	if payload == nil {
		return nil, apperrors.InvalidPasswordResetToken()
	}

	if payload.Expired(time.Now()) {
		return nil, apperrors.PasswordResetTokenExpired()
	}

	if fields := auth.ValidatePassword(newPassword); fields != nil {
		return nil, apperrors.InvalidPassword(fields)
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user.PasswordHash = hash
	user.PasswordResetToken = ""

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	return []events.Event{events.PasswordReset{User: user}}, nil
}

// Role / permission assignment

func (s *UserServiceImpl) SetRoles(userID string, roleNames []string) (*models.User, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	roles, err := s.resolveRoles(roleNames)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRoles(user, roles); err != nil {
		return nil, apperrors.Internal(err)
	}
	user.Roles = roles
	return user, nil
}

func (s *UserServiceImpl) AssignRole(userID, roleName string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	role, err := s.roleRepo.FindByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return apperrors.NotFound("Role")
		}
		return apperrors.Internal(err)
	}

	if err := s.userRepo.AddRole(user, role); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *UserServiceImpl) RevokeRole(userID, roleName string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	role, err := s.roleRepo.FindByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return apperrors.NotFound("Role")
		}
		return apperrors.Internal(err)
	}

	if err := s.userRepo.RemoveRole(user, role); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *UserServiceImpl) SetPermissions(userID string, permNames []string) (*models.User, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(permNames)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetPermissions(user, perms); err != nil {
		return nil, apperrors.Internal(err)
	}
	user.Permissions = perms
	return user, nil
}

func (s *UserServiceImpl) GrantPermission(userID, permName string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	perm, err := s.permRepo.FindByName(permName)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return apperrors.NotFound("Permission")
		}
		return apperrors.Internal(err)
	}

	if err := s.userRepo.AddPermission(user, perm); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *UserServiceImpl) RevokePermission(userID, permName string) error {
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	perm, err := s.permRepo.FindByName(permName)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return apperrors.NotFound("Permission")
		}
		return apperrors.Internal(err)
	}

	if err := s.userRepo.RemovePermission(user, perm); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *UserServiceImpl) resolveRoles(names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := s.roleRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, repositories.ErrRoleNotFound) {
				return nil, apperrors.NotFound("Role")
			}
			return nil, apperrors.Internal(err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func (s *UserServiceImpl) resolvePermissions(names []string) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		perm, err := s.permRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, repositories.ErrPermissionNotFound) {
				return nil, apperrors.NotFound("Permission")
			}
			return nil, apperrors.Internal(err)
		}
		perms = append(perms, *perm)
	}
	return perms, nil
}
