// Package database owns schema migration for the application models.
package database

import (
	"gorm.io/gorm"

	"idm_backend/internal/models"
)

// Migrate applies the schema for every application model, pivot tables
// included.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.OAuthClient{},
		&models.AuditLog{},
	)
}
