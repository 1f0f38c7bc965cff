// Package events defines the domain events services emit and the
// dispatcher that fans them out to listeners. Services do not publish
// to a hidden bus: they return the events they produced and the caller
// dispatches them, so the side effect is visible in the signature.
package events

import "idm_backend/internal/models"

type Event interface {
	// Name is the stable event identifier, e.g. "user.created".
	Name() string
	// Actor identifies the user the event concerns, when there is one.
	Actor() string
}

type UserCreated struct {
	User *models.User
}

func (e UserCreated) Name() string  { return "user.created" }
func (e UserCreated) Actor() string { return e.User.ID }

type UserUpdated struct {
	User *models.User
	// Changed holds the attribute set applied by the update.
	Changed map[string]interface{}
}

func (e UserUpdated) Name() string  { return "user.updated" }
func (e UserUpdated) Actor() string { return e.User.ID }

// VerificationRequested fires when a verification token is (re)issued
// and an email should go out.
type VerificationRequested struct {
	User  *models.User
	Email string
	Token string
}

func (e VerificationRequested) Name() string  { return "user.verification_requested" }
func (e VerificationRequested) Actor() string { return e.User.ID }

// EmailVerified carries both addresses for audit and notification:
// verification may have confirmed an address change.
type EmailVerified struct {
	User     *models.User
	OldEmail string
	NewEmail string
}

func (e EmailVerified) Name() string  { return "user.email_verified" }
func (e EmailVerified) Actor() string { return e.User.ID }

type PasswordResetRequested struct {
	User  *models.User
	Token string
}

func (e PasswordResetRequested) Name() string  { return "user.password_reset_requested" }
func (e PasswordResetRequested) Actor() string { return e.User.ID }

type PasswordReset struct {
	User *models.User
}

func (e PasswordReset) Name() string  { return "user.password_reset" }
func (e PasswordReset) Actor() string { return e.User.ID }

type RoleCreated struct {
	Role *models.Role
}

func (e RoleCreated) Name() string  { return "role.created" }
func (e RoleCreated) Actor() string { return "" }

type RoleUpdated struct {
	Role    *models.Role
	Changed map[string]interface{}
}

func (e RoleUpdated) Name() string  { return "role.updated" }
func (e RoleUpdated) Actor() string { return "" }

type PermissionCreated struct {
	Permission *models.Permission
}

func (e PermissionCreated) Name() string  { return "permission.created" }
func (e PermissionCreated) Actor() string { return "" }

type ClientCreated struct {
	Client *models.OAuthClient
}

func (e ClientCreated) Name() string  { return "client.created" }
func (e ClientCreated) Actor() string { return "" }
