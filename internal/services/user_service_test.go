package services_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idm_backend/internal/auth"
	"idm_backend/internal/events"
	"idm_backend/internal/services/dto"
	"idm_backend/internal/token"
	"idm_backend/pkg/apperrors"
)

func eventNames(evs []events.Event) []string {
	names := make([]string, 0, len(evs))
	for _, ev := range evs {
		names = append(names, ev.Name())
	}
	return names
}

func requireAppError(t *testing.T, err error, wantType string, wantStatus int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, wantType, appErr.Type)
	assert.Equal(t, wantStatus, appErr.Status)
	return appErr
}

func TestCreateUserIssuesVerificationToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, evs, err := env.users.Create(&dto.CreateUserRequest{
		Email:    "new@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	assert.False(t, user.IsVerified())
	assert.NotEmpty(t, user.EmailVerificationToken)

	payload := token.DecodeEmailVerification(user.EmailVerificationToken)
	require.NotNil(t, payload)
	assert.Equal(t, "new@example.com", payload.Email)

	assert.Equal(t, []string{"user.created", "user.verification_requested"}, eventNames(evs))
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.users.Create(&dto.CreateUserRequest{Email: "bad", Password: "short"})
	appErr := requireAppError(t, err, "CannotCreateUser", http.StatusUnprocessableEntity)

	fields, ok := appErr.Context.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "dup@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	_, _, err = env.users.Create(&dto.CreateUserRequest{
		Email: "dup@example.com", Password: "long-enough-password",
	})
	requireAppError(t, err, "CannotCreateUser", http.StatusUnprocessableEntity)
}

func TestCreateUserWithRoles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.roles.Create(&dto.CreateRoleRequest{Name: "editor"})
	require.NoError(t, err)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email:    "staff@example.com",
		Password: "long-enough-password",
		Roles:    []string{"editor"},
	})
	require.NoError(t, err)

	loaded, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	assert.Equal(t, "editor", loaded.Roles[0].Name)
}

func TestCreateUserUnknownRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.users.Create(&dto.CreateUserRequest{
		Email:    "staff@example.com",
		Password: "long-enough-password",
		Roles:    []string{"no-such-role"},
	})
	requireAppError(t, err, "CannotCreateUser", http.StatusUnprocessableEntity)
}

func TestLoginChecks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "login@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, err = env.users.Login(&dto.LoginRequest{
		Email: "login@example.com", Password: "long-enough-password",
	})
	requireAppError(t, err, "Forbidden", http.StatusForbidden)

	verifyUser(t, env, user.ID)

	// Unknown email and wrong password are indistinguishable.
	_, err = env.users.Login(&dto.LoginRequest{
		Email: "ghost@example.com", Password: "long-enough-password",
	})
	requireAppError(t, err, "Unauthenticated", http.StatusUnauthorized)

	_, err = env.users.Login(&dto.LoginRequest{
		Email: "login@example.com", Password: "wrong-password-here",
	})
	requireAppError(t, err, "Unauthenticated", http.StatusUnauthorized)

	resp, err := env.users.Login(&dto.LoginRequest{
		Email: "login@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := auth.ParseAccessToken(testJWTSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginTokenScopesMirrorAbilities(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, _, err := env.perms.Create(&dto.CreatePermissionRequest{Name: "users.view.me"})
	require.NoError(t, err)
	_, _, err = env.roles.Create(&dto.CreateRoleRequest{
		Name: "member", Permissions: []string{"users.view.me"},
	})
	require.NoError(t, err)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email:    "member@example.com",
		Password: "long-enough-password",
		Roles:    []string{"member"},
	})
	require.NoError(t, err)
	verifyUser(t, env, user.ID)

	resp, err := env.users.Login(&dto.LoginRequest{
		Email: "member@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(testJWTSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"users.view.me"}, claims.Scopes)
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "v@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)
	stored := user.EmailVerificationToken

	// A well-formed token that is not the stored one is rejected.
	foreign := token.GenerateEmailVerification("v@example.com")
	_, err = env.users.VerifyEmail(user.ID, foreign)
	requireAppError(t, err, "InvalidEmailVerificationToken", http.StatusUnprocessableEntity)

	_, err = env.users.VerifyEmail(user.ID, "")
	requireAppError(t, err, "InvalidEmailVerificationToken", http.StatusUnprocessableEntity)

	evs, err := env.users.VerifyEmail(user.ID, stored)
	require.NoError(t, err)
	assert.Equal(t, []string{"user.email_verified"}, eventNames(evs))

	loaded, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsVerified())
	assert.Empty(t, loaded.EmailVerificationToken)

	// Single use: the consumed token no longer matches.
	_, err = env.users.VerifyEmail(user.ID, stored)
	requireAppError(t, err, "InvalidEmailVerificationToken", http.StatusUnprocessableEntity)
}

func TestVerifyEmailConfirmsAddressChange(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "old@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)
	verifyUser(t, env, user.ID)

	newEmail := "fresh@example.com"
	updated, evs, err := env.users.Update(user.ID, &dto.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.False(t, updated.IsVerified())
	assert.Contains(t, eventNames(evs), "user.verification_requested")

	evs, err = env.users.VerifyEmail(user.ID, updated.EmailVerificationToken)
	require.NoError(t, err)

	verified, ok := evs[0].(events.EmailVerified)
	require.True(t, ok)
	assert.Equal(t, "old@example.com", verified.OldEmail)
	assert.Equal(t, "fresh@example.com", verified.NewEmail)
}

func TestVerifyEmailLosesRaceToConcurrentSignup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "mover@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)
	verifyUser(t, env, user.ID)

	newEmail := "contested@example.com"
	updated, _, err := env.users.Update(user.ID, &dto.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)

	// Someone registers the contested address before the token is used.
	_, _, err = env.users.Create(&dto.CreateUserRequest{
		Email: "contested@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	_, err = env.users.VerifyEmail(user.ID, updated.EmailVerificationToken)
	requireAppError(t, err, "CannotUpdateUser", http.StatusUnprocessableEntity)
}

func TestResetPasswordCheckOrdering(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "reset@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	// No token issued yet: identity check fails first.
	_, err = env.users.ResetPassword(user.ID, token.GeneratePasswordReset(time.Hour), "whatever")
	requireAppError(t, err, "InvalidPasswordResetToken", http.StatusUnprocessableEntity)

	evs, err := env.users.RequestPasswordReset("reset@example.com")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	issued := evs[0].(events.PasswordResetRequested).Token

	// Identity passes, then strength is checked.
	_, err = env.users.ResetPassword(user.ID, issued, "short")
	requireAppError(t, err, "InvalidPassword", http.StatusUnprocessableEntity)

	evs, err = env.users.ResetPassword(user.ID, issued, "brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, []string{"user.password_reset"}, eventNames(evs))

	// Token is single use.
	_, err = env.users.ResetPassword(user.ID, issued, "brand-new-password")
	requireAppError(t, err, "InvalidPasswordResetToken", http.StatusUnprocessableEntity)

	verifyUser(t, env, user.ID)
	_, err = env.users.Login(&dto.LoginRequest{
		Email: "reset@example.com", Password: "brand-new-password",
	})
	assert.NoError(t, err)
}

func TestResetPasswordExpiredBeforeStrength(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "expired@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	// Plant an already-expired token; expiry must be reported before the
	// weak password is.
	expired := token.GeneratePasswordReset(-time.Minute)
	stored, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	stored.PasswordResetToken = expired
	require.NoError(t, env.userRepo.Update(stored))

	_, err = env.users.ResetPassword(user.ID, expired, "short")
	requireAppError(t, err, "PasswordResetTokenExpired", http.StatusUnprocessableEntity)
}

func TestResendVerification(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "resend@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)
	first := user.EmailVerificationToken

	evs, err := env.users.ResendVerification("resend@example.com")
	require.NoError(t, err)
	require.Len(t, evs, 1)

	reissued := evs[0].(events.VerificationRequested).Token
	assert.NotEqual(t, first, reissued)

	// The replaced token is dead.
	_, err = env.users.VerifyEmail(user.ID, first)
	requireAppError(t, err, "InvalidEmailVerificationToken", http.StatusUnprocessableEntity)

	_, err = env.users.VerifyEmail(user.ID, reissued)
	require.NoError(t, err)

	// Already verified now.
	_, err = env.users.ResendVerification("resend@example.com")
	requireAppError(t, err, "CannotUpdateUser", http.StatusUnprocessableEntity)
}

func TestAssignRoleUnknown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	user, _, err := env.users.Create(&dto.CreateUserRequest{
		Email: "r@example.com", Password: "long-enough-password",
	})
	require.NoError(t, err)

	err = env.users.AssignRole(user.ID, "missing")
	requireAppError(t, err, "RoleNotFound", http.StatusNotFound)

	err = env.users.AssignRole("no-such-user", "missing")
	requireAppError(t, err, "UserNotFound", http.StatusNotFound)
}

// verifyUser marks the account verified through the real token flow.
func verifyUser(t *testing.T, env *testEnv, userID string) {
	t.Helper()

	user, err := env.users.FindByID(userID)
	require.NoError(t, err)
	if user.IsVerified() {
		return
	}

	_, err = env.users.VerifyEmail(userID, user.EmailVerificationToken)
	require.NoError(t, err)
}
