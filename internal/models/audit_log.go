package models

import "gorm.io/datatypes"

// AuditLog keeps one row per dispatched domain event.
type AuditLog struct {
	BaseModel
	Event   string         `gorm:"index;not null" json:"event"`
	ActorID string         `gorm:"index" json:"actor_id"`
	Details datatypes.JSON `json:"details"`
}
