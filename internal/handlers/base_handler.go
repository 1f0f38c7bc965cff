package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/logger"
	"idm_backend/internal/pagination"
	"idm_backend/pkg/apperrors"
)

// BaseHandler carries the plumbing every handler shares: request
// binding and the error-to-envelope translation. Input validation
// itself lives in the services, so binding here is structural only.
type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to bind request body", err,
			"path", c.Request.URL.Path)
		apperrors.Handle(c, apperrors.FromStatus(http.StatusBadRequest, "Invalid request body"))
		return false
	}
	return true
}

func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to bind query params", err,
			"path", c.Request.URL.Path)
		apperrors.Handle(c, apperrors.FromStatus(http.StatusBadRequest, "Invalid query parameters"))
		return false
	}
	return true
}

// BindPagination parses limit/page from the query string. Non-numeric
// values surface as the structured pagination error; range checks run
// in the service right before the query.
func (h *BaseHandler) BindPagination(c *gin.Context) (pagination.Params, bool) {
	var p pagination.Params
	fields := make(map[string]string)

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil {
			fields["limit"] = "Must be a number"
		} else {
			p.Limit = &n
		}
	}
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil {
			fields["page"] = "Must be a number"
		} else {
			p.Page = &n
		}
	}

	if len(fields) > 0 {
		apperrors.Handle(c, apperrors.InvalidPagination(fields))
		return pagination.Params{}, false
	}
	return p, true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Status < http.StatusInternalServerError {
		logger.CtxWarn(ctx, "service error",
			"type", appErr.Type,
			"path", c.Request.URL.Path,
		)
	} else {
		logger.CtxWithError(ctx, "internal error", err, "path", c.Request.URL.Path)
	}

	apperrors.Handle(c, err)
}
