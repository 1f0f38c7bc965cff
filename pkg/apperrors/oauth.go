package apperrors

import "net/http"

// OAuthError is what the upstream OAuth2 server library reports:
// a library-specific numeric code plus the HTTP status it suggests.
type OAuthError struct {
	Code    int
	Status  int
	Message string
}

func (e *OAuthError) Error() string {
	return e.Message
}

// Numeric codes of the upstream OAuth2 server library.
const (
	oauthInvalidRequest      = 3
	oauthInvalidClient       = 4
	oauthInvalidScope        = 5
	oauthInvalidCredentials  = 6
	oauthServerError         = 7
	oauthInvalidRefreshToken = 8
	oauthAccessDenied        = 9
	oauthInvalidGrant        = 10
)

// MapOAuthError translates an upstream OAuth error onto the domain
// taxonomy by its numeric code. Unmapped codes fall back to a generic
// error derived from the HTTP status the library suggested.
func MapOAuthError(err *OAuthError) *AppError {
	switch err.Code {
	case oauthInvalidClient, oauthInvalidCredentials:
		return Unauthenticated("Client authentication failed")
	case oauthInvalidRefreshToken:
		return New("InvalidRefreshToken", "The refresh token is invalid", http.StatusUnauthorized)
	case oauthAccessDenied:
		return Forbidden("The resource owner or authorization server denied the request")
	case oauthInvalidRequest, oauthInvalidGrant:
		return New("InvalidOAuthRequest", err.Message, http.StatusBadRequest)
	case oauthInvalidScope:
		return New("InvalidScope", err.Message, http.StatusBadRequest)
	case oauthServerError:
		return Internal(err)
	default:
		return FromStatus(err.Status, err.Message)
	}
}
