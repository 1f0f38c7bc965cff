package repositories

import (
	"gorm.io/gorm"

	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
)

type AuditLogRepository interface {
	Append(entry *models.AuditLog) error
	All(p pagination.Params) ([]models.AuditLog, int64, error)
	ByActor(actorID string, p pagination.Params) ([]models.AuditLog, int64, error)
}

type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *AuditLogRepositoryImpl) All(p pagination.Params) ([]models.AuditLog, int64, error) {
	return r.list(r.db.Model(&models.AuditLog{}), p)
}

func (r *AuditLogRepositoryImpl) ByActor(actorID string, p pagination.Params) ([]models.AuditLog, int64, error) {
	return r.list(r.db.Model(&models.AuditLog{}).Where("actor_id = ?", actorID), p)
}

func (r *AuditLogRepositoryImpl) list(query *gorm.DB, p pagination.Params) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := pagination.Apply(query, p).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
