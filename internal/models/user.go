package models

import "time"

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	VerifiedAt   *time.Time `json:"verified_at"`

	// Single-use credential tokens, stored opaque on the row and compared
	// byte-for-byte at consumption time.
	EmailVerificationToken string `json:"-"`
	PasswordResetToken     string `json:"-"`

	// Relations
	Roles       []Role       `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Permissions []Permission `gorm:"many2many:user_permissions" json:"permissions,omitempty"`
}

// IsVerified reports whether the user completed email verification.
func (u *User) IsVerified() bool {
	return u.VerifiedAt != nil
}

// Abilities collects the permission names the user holds, both directly
// and through assigned roles. Roles and Permissions must be preloaded.
func (u *User) Abilities() []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, p := range u.Permissions {
		add(p.Name)
	}
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			add(p.Name)
		}
	}
	return out
}

func (u *User) SubjectID() string {
	return u.ID
}
