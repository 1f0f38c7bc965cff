package apperrors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handle maps any error onto the envelope contract and writes the
// response. Unrecognized errors become a generic 500 so a raw exception
// never leaks to the client.
func Handle(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		var oauthErr *OAuthError
		if errors.As(err, &oauthErr) {
			appErr = MapOAuthError(oauthErr)
		} else {
			appErr = Internal(err)
		}
	}

	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("server error", "type", appErr.Type, "error", err)
	}

	c.JSON(appErr.Status, appErr.Envelope())
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
