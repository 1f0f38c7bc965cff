package handlers

// AppHandlers holds every handler the router mounts.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	RoleHandler       *RoleHandler
	PermissionHandler *PermissionHandler
	ClientHandler     *ClientHandler
	AuditHandler      *AuditHandler
}
