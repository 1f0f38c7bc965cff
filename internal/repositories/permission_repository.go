package repositories

import (
	"errors"

	"gorm.io/gorm"

	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
)

type PermissionRepository interface {
	All(p pagination.Params) ([]models.Permission, int64, error)
	Create(perm *models.Permission) error
	FirstOrCreate(perm *models.Permission) (*models.Permission, error)
	Find(param, search string, regex bool, p pagination.Params) ([]models.Permission, int64, error)
	FindByID(id string) (*models.Permission, error)
	FindByName(name string) (*models.Permission, error)
	Update(perm *models.Permission) error
	Delete(id string) error
}

type PermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &PermissionRepositoryImpl{db: db}
}

func (r *PermissionRepositoryImpl) All(p pagination.Params) ([]models.Permission, int64, error) {
	var perms []models.Permission

	query := r.db.Model(&models.Permission{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).Order("name ASC").Find(&perms).Error
	return perms, total, err
}

func (r *PermissionRepositoryImpl) Create(perm *models.Permission) error {
	var existing models.Permission
	if err := r.db.Where("name = ?", perm.Name).First(&existing).Error; err == nil {
		return ErrPermissionAlreadyExists
	}

	return r.db.Create(perm).Error
}

// FirstOrCreate shares the non-atomic find-then-create semantics of
// RoleRepository.FirstOrCreate.
func (r *PermissionRepositoryImpl) FirstOrCreate(perm *models.Permission) (*models.Permission, error) {
	existing, err := r.FindByName(perm.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrPermissionNotFound) {
		return nil, err
	}

	if err := r.db.Create(perm).Error; err != nil {
		return nil, err
	}
	return perm, nil
}

func (r *PermissionRepositoryImpl) Find(param, search string, regex bool, p pagination.Params) ([]models.Permission, int64, error) {
	var perms []models.Permission

	query := r.db.Model(&models.Permission{}).Where(matchClause(r.db, param, regex), search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).Order("name ASC").Find(&perms).Error
	return perms, total, err
}

func (r *PermissionRepositoryImpl) FindByID(id string) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.First(&perm, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepositoryImpl) FindByName(name string) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.First(&perm, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepositoryImpl) Update(perm *models.Permission) error {
	result := r.db.Model(perm).Updates(map[string]interface{}{
		"name":         perm.Name,
		"display_name": perm.DisplayName,
		"description":  perm.Description,
	})
	if result.Error != nil {
		return result.Error
	}
	// Zero affected rows may be a no-op update on an existing row
	// (MySQL counts changed rows only); recheck before reporting absence.
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Permission{}).Where("id = ?", perm.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPermissionNotFound
		}
	}
	return nil
}

func (r *PermissionRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Permission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}
	return nil
}
