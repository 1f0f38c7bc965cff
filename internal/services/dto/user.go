package dto

import "idm_backend/internal/models"

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	// Roles are attached by name after the user row is created.
	Roles []string `json:"roles,omitempty" validate:"omitempty,dive,rolename"`
}

type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles" validate:"required,dive,rolename"`
}

type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,ability"`
}
