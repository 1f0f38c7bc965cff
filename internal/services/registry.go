package services

import (
	"idm_backend/internal/email"
	"idm_backend/internal/events"
)

// ServiceContainer holds every service the application wires up.
type ServiceContainer struct {
	UserService       UserService
	RoleService       RoleService
	PermissionService PermissionService
	ClientService     ClientService
	AuditService      AuditService
	EmailProvider     email.Provider
	Dispatcher        *events.Dispatcher
}
