package models

type Role struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	IsDefault   bool   `gorm:"default:false" json:"is_default"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Abilities returns the names of the permissions attached to the role.
// Permissions must be preloaded.
func (r *Role) Abilities() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Name)
	}
	return out
}

// SubjectID is empty for roles: a default role acts as an anonymous
// subject, so ownership-scoped checks never match it.
func (r *Role) SubjectID() string {
	return ""
}
