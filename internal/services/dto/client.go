package dto

import "idm_backend/internal/models"

type CreateClientRequest struct {
	Name           string `json:"name" validate:"required,max=128"`
	RedirectURI    string `json:"redirect_uri" validate:"omitempty,url"`
	PersonalAccess bool   `json:"personal_access"`
}

// CreateClientResponse is the only place the plaintext secret ever
// appears; the stored copy is hashed.
type CreateClientResponse struct {
	Client *models.OAuthClient `json:"client"`
	Secret string              `json:"secret"`
}

type UpdateClientRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=128"`
	RedirectURI *string `json:"redirect_uri" validate:"omitempty,url"`
}

type IssuePersonalTokenRequest struct {
	Scopes []string `json:"scopes" validate:"required,dive,ability"`
}

type IssuePersonalTokenResponse struct {
	AccessToken string `json:"access_token"`
}
