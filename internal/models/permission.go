package models

// Permission names are dot-namespaced: <module>.<action>[.<scope>],
// e.g. "user.view.me". "<module>.*" grants every ability of the module.
type Permission struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}
