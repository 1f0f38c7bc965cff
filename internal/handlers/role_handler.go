package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/events"
	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
	"idm_backend/internal/services/dto"
)

type RoleHandler struct {
	*BaseHandler
	roleService services.RoleService
	dispatcher  *events.Dispatcher
}

func NewRoleHandler(base *BaseHandler, roleService services.RoleService, dispatcher *events.Dispatcher) *RoleHandler {
	return &RoleHandler{
		BaseHandler: base,
		roleService: roleService,
		dispatcher:  dispatcher,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	{
		roles.GET("", middleware.RequireAbility("roles.view"), h.List)
		roles.GET("/find", middleware.RequireAbility("roles.view"), h.Find)
		roles.GET("/:id", middleware.RequireAbility("roles.view"), h.Get)

		manage := roles.Group("", middleware.RequireAbility("roles.manage"))
		{
			manage.POST("", h.Create)
			manage.PATCH("/:id", h.Update)
			manage.DELETE("/:id", h.Delete)
			manage.POST("/:id/default", h.SetDefault)

			manage.PUT("/:id/permissions", h.SetPermissions)
			manage.POST("/:id/permissions/:permission", h.AttachPermission)
			manage.DELETE("/:id/permissions/:permission", h.DetachPermission)
		}
	}
}

func (h *RoleHandler) List(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.roleService.All(p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RoleHandler) Find(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	param := c.DefaultQuery("param", "name")
	search := c.Query("search")
	regex := c.Query("regex") == "true"

	result, err := h.roleService.Find(param, search, regex, p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.FindByID(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, evs, err := h.roleService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusCreated, role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, evs, err := h.roleService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roleService.Delete(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RoleHandler) SetDefault(c *gin.Context) {
	if err := h.roleService.SetDefault(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default role updated"})
}

func (h *RoleHandler) SetPermissions(c *gin.Context) {
	var req dto.SetPermissionsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := h.roleService.SetPermissions(c.Param("id"), req.Permissions)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) AttachPermission(c *gin.Context) {
	if err := h.roleService.AttachPermission(c.Param("id"), c.Param("permission")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RoleHandler) DetachPermission(c *gin.Context) {
	if err := h.roleService.DetachPermission(c.Param("id"), c.Param("permission")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
