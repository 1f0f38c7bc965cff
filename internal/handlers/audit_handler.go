package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
)

type AuditHandler struct {
	*BaseHandler
	auditService services.AuditService
}

func NewAuditHandler(base *BaseHandler, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler:  base,
		auditService: auditService,
	}
}

func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audit := rg.Group("/audit-logs", middleware.RequireAbility("audit.view"))
	{
		audit.GET("", h.List)
		audit.GET("/actor/:id", h.ByActor)
	}
}

func (h *AuditHandler) List(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.auditService.All(p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AuditHandler) ByActor(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.auditService.ByActor(c.Param("id"), p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
