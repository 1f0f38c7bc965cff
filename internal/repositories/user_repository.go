package repositories

import (
	"errors"

	"gorm.io/gorm"

	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
)

type UserRepository interface {
	All(p pagination.Params) ([]models.User, int64, error)
	Create(user *models.User) error
	FirstOrCreate(user *models.User) (*models.User, error)
	Find(param, search string, regex bool, p pagination.Params) ([]models.User, int64, error)
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	EmailTaken(email, excludeUserID string) (bool, error)
	Update(user *models.User) error
	Delete(id string) error

	// Relation mutators. The Add/Remove/Set variants persist
	// immediately; the Stage variants only mutate the in-memory model,
	// for building up an object that has not been saved yet.
	AddRole(user *models.User, role *models.Role) error
	RemoveRole(user *models.User, role *models.Role) error
	SetRoles(user *models.User, roles []models.Role) error
	AddPermission(user *models.User, perm *models.Permission) error
	RemovePermission(user *models.User, perm *models.Permission) error
	SetPermissions(user *models.User, perms []models.Permission) error
	StageRole(user *models.User, role *models.Role)
	StagePermission(user *models.User, perm *models.Permission)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) All(p pagination.Params) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).
		Preload("Roles.Permissions").Preload("Permissions").
		Order("created_at DESC").Find(&users).Error
	return users, total, err
}

// Create rejects a duplicate email with a find-then-insert check. The
// check is not atomic; a concurrent insert slips through to the unique
// index and surfaces as a plain creation error.
func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return r.db.Create(user).Error
}

// FirstOrCreate finds by email and creates on a miss, with the same
// non-atomic semantics as RoleRepository.FirstOrCreate: concurrent
// identical calls race to the unique index and the loser gets the
// creation error, not the existing row.
func (r *UserRepositoryImpl) FirstOrCreate(user *models.User) (*models.User, error) {
	existing, err := r.FindByEmail(user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) Find(param, search string, regex bool, p pagination.Params) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{}).Where(matchClause(r.db, param, regex), search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).
		Preload("Roles.Permissions").Preload("Permissions").
		Order("created_at DESC").Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles.Permissions").Preload("Permissions").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles.Permissions").Preload("Permissions").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another account already owns the address.
func (r *UserRepositoryImpl) EmailTaken(email, excludeUserID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeUserID != "" {
		query = query.Where("id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Model(user).Updates(map[string]interface{}{
		"email":                    user.Email,
		"password_hash":            user.PasswordHash,
		"verified_at":              user.VerifiedAt,
		"email_verification_token": user.EmailVerificationToken,
		"password_reset_token":     user.PasswordResetToken,
	})
	if result.Error != nil {
		return result.Error
	}
	// MySQL counts changed rows only, so zero affected rows may be a
	// no-op update on an existing row; recheck before reporting absence.
	if result.RowsAffected == 0 {
		return r.mustExist(user.ID)
	}
	return nil
}

func (r *UserRepositoryImpl) mustExist(id string) error {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{BaseModel: models.BaseModel{ID: id}}
		if err := tx.Model(user).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Model(user).Association("Permissions").Clear(); err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// Relation mutators

func (r *UserRepositoryImpl) AddRole(user *models.User, role *models.Role) error {
	return r.db.Model(user).Association("Roles").Append(role)
}

func (r *UserRepositoryImpl) RemoveRole(user *models.User, role *models.Role) error {
	return r.db.Model(user).Association("Roles").Delete(role)
}

func (r *UserRepositoryImpl) SetRoles(user *models.User, roles []models.Role) error {
	return r.db.Model(user).Association("Roles").Replace(roles)
}

func (r *UserRepositoryImpl) AddPermission(user *models.User, perm *models.Permission) error {
	return r.db.Model(user).Association("Permissions").Append(perm)
}

func (r *UserRepositoryImpl) RemovePermission(user *models.User, perm *models.Permission) error {
	return r.db.Model(user).Association("Permissions").Delete(perm)
}

func (r *UserRepositoryImpl) SetPermissions(user *models.User, perms []models.Permission) error {
	return r.db.Model(user).Association("Permissions").Replace(perms)
}

func (r *UserRepositoryImpl) StageRole(user *models.User, role *models.Role) {
	user.Roles = append(user.Roles, *role)
}

func (r *UserRepositoryImpl) StagePermission(user *models.User, perm *models.Permission) {
	user.Permissions = append(user.Permissions, *perm)
}
