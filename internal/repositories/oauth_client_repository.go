package repositories

import (
	"errors"

	"gorm.io/gorm"

	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
)

type OAuthClientRepository interface {
	All(p pagination.Params) ([]models.OAuthClient, int64, error)
	Create(client *models.OAuthClient) error
	FindByID(id string) (*models.OAuthClient, error)
	FindPersonal() (*models.OAuthClient, error)
	Update(client *models.OAuthClient) error
	Revoke(id string) error
}

type OAuthClientRepositoryImpl struct {
	db *gorm.DB
}

func NewOAuthClientRepository(db *gorm.DB) OAuthClientRepository {
	return &OAuthClientRepositoryImpl{db: db}
}

func (r *OAuthClientRepositoryImpl) All(p pagination.Params) ([]models.OAuthClient, int64, error) {
	var clients []models.OAuthClient

	query := r.db.Model(&models.OAuthClient{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).Order("created_at DESC").Find(&clients).Error
	return clients, total, err
}

func (r *OAuthClientRepositoryImpl) Create(client *models.OAuthClient) error {
	return r.db.Create(client).Error
}

func (r *OAuthClientRepositoryImpl) FindByID(id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindPersonal returns the client personal access tokens are issued
// against.
func (r *OAuthClientRepositoryImpl) FindPersonal() (*models.OAuthClient, error) {
	var client models.OAuthClient
	err := r.db.First(&client, "personal_access = ? AND revoked = ?", true, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *OAuthClientRepositoryImpl) Update(client *models.OAuthClient) error {
	result := r.db.Model(client).Updates(map[string]interface{}{
		"name":         client.Name,
		"redirect_uri": client.RedirectURI,
	})
	if result.Error != nil {
		return result.Error
	}
	// Zero affected rows may be a no-op update on an existing row
	// (MySQL counts changed rows only); recheck before reporting absence.
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.OAuthClient{}).Where("id = ?", client.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrClientNotFound
		}
	}
	return nil
}

func (r *OAuthClientRepositoryImpl) Revoke(id string) error {
	result := r.db.Model(&models.OAuthClient{}).Where("id = ?", id).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
