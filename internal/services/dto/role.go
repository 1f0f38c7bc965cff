package dto

type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,rolename,max=64"`
	DisplayName string   `json:"display_name" validate:"max=128"`
	Description string   `json:"description" validate:"max=512"`
	Permissions []string `json:"permissions,omitempty" validate:"omitempty,dive,ability"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,rolename,max=64"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=128"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}
