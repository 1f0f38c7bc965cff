package repositories

import "errors"

// Sentinel errors returned by repositories. Services translate them
// into typed AppErrors at the façade boundary; inside this package
// absence is a value, not an exception.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")

	ErrPermissionNotFound      = errors.New("permission not found")
	ErrPermissionAlreadyExists = errors.New("permission already exists")

	ErrClientNotFound = errors.New("oauth client not found")
)
