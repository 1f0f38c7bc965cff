package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCauseIsSnakeCasedType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invalid_password_reset_token", InvalidPasswordResetToken().Cause())
	assert.Equal(t, "cannot_create_user", CannotCreate("User", nil).Cause())
	assert.Equal(t, "user_not_found", NotFound("User").Cause())
}

func TestConstructorsCarryStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusUnprocessableEntity, CannotCreate("Role", nil).Status)
	assert.Equal(t, http.StatusUnprocessableEntity, InvalidEmailVerificationToken().Status)
	assert.Equal(t, http.StatusUnprocessableEntity, PasswordResetTokenExpired().Status)
	assert.Equal(t, http.StatusNotFound, NotFound("Role").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("nope").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("nope").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status)
}

func TestEnvelopeShape(t *testing.T) {
	t.Parallel()

	fields := map[string]string{"email": "This field is required"}
	env := CannotCreate("User", fields).Envelope()

	assert.Equal(t, "CannotCreateUser", env.Type)
	assert.Equal(t, "cannot_create_user", env.Cause)
	assert.Equal(t, fields, env.Context)
	assert.Equal(t, http.StatusUnprocessableEntity, env.Meta.Request.Status)
	assert.Equal(t, Version, env.Meta.Version)
	assert.NotEmpty(t, env.Meta.Request.ID)
}

func TestEnvelopeRequestIDIsFreshPerRender(t *testing.T) {
	t.Parallel()

	err := NotFound("User")
	a := err.Envelope()
	b := err.Envelope()
	assert.NotEqual(t, a.Meta.Request.ID, b.Meta.Request.ID)
}

func TestAsAppErrorUnwraps(t *testing.T) {
	t.Parallel()

	inner := NotFound("Role")
	wrapped := errorsJoin(inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "RoleNotFound", appErr.Type)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func errorsJoin(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }

func TestFromStatus(t *testing.T) {
	t.Parallel()

	e := FromStatus(http.StatusBadRequest, "")
	assert.Equal(t, "BadRequest", e.Type)
	assert.Equal(t, "Bad Request", e.Message)

	// Sub-4xx statuses are not error statuses; collapse to 500.
	e = FromStatus(http.StatusOK, "odd")
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestMapOAuthError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		code       int
		wantType   string
		wantStatus int
	}{
		{"invalid client", 4, "Unauthenticated", http.StatusUnauthorized},
		{"invalid credentials", 6, "Unauthenticated", http.StatusUnauthorized},
		{"invalid refresh token", 8, "InvalidRefreshToken", http.StatusUnauthorized},
		{"access denied", 9, "Forbidden", http.StatusForbidden},
		{"invalid request", 3, "InvalidOAuthRequest", http.StatusBadRequest},
		{"invalid grant", 10, "InvalidOAuthRequest", http.StatusBadRequest},
		{"invalid scope", 5, "InvalidScope", http.StatusBadRequest},
		{"server error", 7, "InternalError", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapOAuthError(&OAuthError{Code: tc.code, Message: "msg"})
			assert.Equal(t, tc.wantType, got.Type)
			assert.Equal(t, tc.wantStatus, got.Status)
		})
	}
}

func TestMapOAuthErrorFallsBackToStatus(t *testing.T) {
	t.Parallel()

	got := MapOAuthError(&OAuthError{Code: 99, Status: http.StatusTeapot, Message: "odd"})
	assert.Equal(t, http.StatusTeapot, got.Status)
	assert.Equal(t, "odd", got.Message)
}

func TestHandleMapsOAuthErrorsByCode(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Handle(c, &OAuthError{Code: 9, Status: http.StatusForbidden, Message: "denied"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"cause":"forbidden"`)
}

func TestHandleUnrecognizedErrorRendersInternal(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Handle(c, errors.New("raw"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"cause":"internal_error"`)
	assert.NotContains(t, w.Body.String(), "raw")
}
