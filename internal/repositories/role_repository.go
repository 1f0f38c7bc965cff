package repositories

import (
	"errors"

	"gorm.io/gorm"

	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
)

type RoleRepository interface {
	All(p pagination.Params) ([]models.Role, int64, error)
	Create(role *models.Role) error
	FirstOrCreate(role *models.Role) (*models.Role, error)
	Find(param, search string, regex bool, p pagination.Params) ([]models.Role, int64, error)
	FindByID(id string) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	FindDefault() (*models.Role, error)
	Update(role *models.Role) error
	SetDefault(id string) error
	Delete(id string) error

	AddPermission(role *models.Role, perm *models.Permission) error
	RemovePermission(role *models.Role, perm *models.Permission) error
	SetPermissions(role *models.Role, perms []models.Permission) error
	StagePermission(role *models.Role, perm *models.Permission)
}

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) All(p pagination.Params) ([]models.Role, int64, error) {
	var roles []models.Role

	query := r.db.Model(&models.Role{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).
		Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, total, err
}

func (r *RoleRepositoryImpl) Create(role *models.Role) error {
	var existing models.Role
	if err := r.db.Where("name = ?", role.Name).First(&existing).Error; err == nil {
		return ErrRoleAlreadyExists
	}

	return r.db.Create(role).Error
}

// FirstOrCreate finds by name and creates on a miss. The two steps are
// not atomic: concurrent identical calls race to the unique index and
// the loser gets the creation error, not the existing row.
func (r *RoleRepositoryImpl) FirstOrCreate(role *models.Role) (*models.Role, error) {
	existing, err := r.FindByName(role.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return nil, err
	}

	if err := r.db.Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepositoryImpl) Find(param, search string, regex bool, p pagination.Params) ([]models.Role, int64, error) {
	var roles []models.Role

	query := r.db.Model(&models.Role{}).Where(matchClause(r.db, param, regex), search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).
		Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, total, err
}

func (r *RoleRepositoryImpl) FindByID(id string) (*models.Role, error) {
	var role models.Role
	err := r.db.Preload("Permissions").First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Preload("Permissions").First(&role, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindDefault returns (nil, nil) when no role is flagged default;
// callers treat that as "no subject", not as a failure.
func (r *RoleRepositoryImpl) FindDefault() (*models.Role, error) {
	var role models.Role
	err := r.db.Preload("Permissions").First(&role, "is_default = ?", true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) Update(role *models.Role) error {
	result := r.db.Model(role).Updates(map[string]interface{}{
		"name":         role.Name,
		"display_name": role.DisplayName,
		"description":  role.Description,
	})
	if result.Error != nil {
		return result.Error
	}
	// Zero affected rows may be a no-op update on an existing row
	// (MySQL counts changed rows only); recheck before reporting absence.
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Role{}).Where("id = ?", role.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRoleNotFound
		}
	}
	return nil
}

// SetDefault flags exactly one role as default. Clear-then-set runs in
// one transaction so there is never a window with zero or two defaults.
func (r *RoleRepositoryImpl) SetDefault(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Role{}).Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Role{}).Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		return nil
	})
}

func (r *RoleRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		role := &models.Role{BaseModel: models.BaseModel{ID: id}}
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Role{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		return nil
	})
}

func (r *RoleRepositoryImpl) AddPermission(role *models.Role, perm *models.Permission) error {
	return r.db.Model(role).Association("Permissions").Append(perm)
}

func (r *RoleRepositoryImpl) RemovePermission(role *models.Role, perm *models.Permission) error {
	return r.db.Model(role).Association("Permissions").Delete(perm)
}

func (r *RoleRepositoryImpl) SetPermissions(role *models.Role, perms []models.Permission) error {
	return r.db.Model(role).Association("Permissions").Replace(perms)
}

func (r *RoleRepositoryImpl) StagePermission(role *models.Role, perm *models.Permission) {
	role.Permissions = append(role.Permissions, *perm)
}
