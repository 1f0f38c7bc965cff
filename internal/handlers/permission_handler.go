package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/events"
	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
	"idm_backend/internal/services/dto"
)

type PermissionHandler struct {
	*BaseHandler
	permService services.PermissionService
	dispatcher  *events.Dispatcher
}

func NewPermissionHandler(base *BaseHandler, permService services.PermissionService, dispatcher *events.Dispatcher) *PermissionHandler {
	return &PermissionHandler{
		BaseHandler: base,
		permService: permService,
		dispatcher:  dispatcher,
	}
}

func (h *PermissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	perms := rg.Group("/permissions")
	{
		perms.GET("", middleware.RequireAbility("permissions.view"), h.List)
		perms.GET("/find", middleware.RequireAbility("permissions.view"), h.Find)
		perms.GET("/:id", middleware.RequireAbility("permissions.view"), h.Get)

		manage := perms.Group("", middleware.RequireAbility("permissions.manage"))
		{
			manage.POST("", h.Create)
			manage.PATCH("/:id", h.Update)
			manage.DELETE("/:id", h.Delete)
		}
	}
}

func (h *PermissionHandler) List(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.permService.All(p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PermissionHandler) Find(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	param := c.DefaultQuery("param", "name")
	search := c.Query("search")
	regex := c.Query("regex") == "true"

	result, err := h.permService.Find(param, search, regex, p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PermissionHandler) Get(c *gin.Context) {
	perm, err := h.permService.FindByID(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, perm)
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req dto.CreatePermissionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	perm, evs, err := h.permService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusCreated, perm)
}

func (h *PermissionHandler) Update(c *gin.Context) {
	var req dto.UpdatePermissionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	perm, err := h.permService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, perm)
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permService.Delete(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
