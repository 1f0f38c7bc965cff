package dto

type CreatePermissionRequest struct {
	Name        string `json:"name" validate:"required,ability,max=128"`
	DisplayName string `json:"display_name" validate:"max=128"`
	Description string `json:"description" validate:"max=512"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name" validate:"omitempty,ability,max=128"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=128"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}
