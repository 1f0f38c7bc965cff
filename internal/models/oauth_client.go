package models

// OAuthClient is the storage side of the OAuth2 integration. The grant
// machinery itself lives outside this codebase; we only keep the client
// records it needs and the revocation flag.
type OAuthClient struct {
	BaseModel
	Name           string `gorm:"not null" json:"name"`
	SecretHash     string `gorm:"not null" json:"-"`
	RedirectURI    string `json:"redirect_uri"`
	PersonalAccess bool   `gorm:"default:false" json:"personal_access"`
	Revoked        bool   `gorm:"default:false" json:"revoked"`
}
