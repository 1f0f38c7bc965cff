package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/access"
	"idm_backend/internal/events"
	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
	"idm_backend/internal/services/dto"
	"idm_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	dispatcher  *events.Dispatcher
}

func NewUserHandler(base *BaseHandler, userService services.UserService, dispatcher *events.Dispatcher) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		dispatcher:  dispatcher,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", middleware.RequireAbility("users.list"), h.List)
		users.GET("/find", middleware.RequireAbility("users.list"), h.Find)
		users.POST("", middleware.RequireAbility("users.create"), h.Create)

		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", middleware.RequireAbility("users.delete"), h.Delete)

		roles := users.Group("/:id/roles", middleware.RequireAbility("users.roles.manage"))
		{
			roles.PUT("", h.SetRoles)
			roles.POST("/:role", h.AssignRole)
			roles.DELETE("/:role", h.RevokeRole)
		}

		perms := users.Group("/:id/permissions", middleware.RequireAbility("users.permissions.manage"))
		{
			perms.PUT("", h.SetPermissions)
			perms.POST("/:permission", h.GrantPermission)
			perms.DELETE("/:permission", h.RevokePermission)
		}
	}
}

func (h *UserHandler) List(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.userService.All(p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Find(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	param := c.DefaultQuery("param", "email")
	search := c.Query("search")
	regex := c.Query("regex") == "true"

	result, err := h.userService.Find(param, search, regex, p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, evs, err := h.userService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeOwn(c, "users.view", id) {
		return
	}

	user, err := h.userService.FindByID(id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeOwn(c, "users.update", id) {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, evs, err := h.userService.Update(id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetRoles(c *gin.Context) {
	var req dto.SetRolesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRoles(c.Param("id"), req.Roles)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	if err := h.userService.AssignRole(c.Param("id"), c.Param("role")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) RevokeRole(c *gin.Context) {
	if err := h.userService.RevokeRole(c.Param("id"), c.Param("role")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPermissions(c *gin.Context) {
	var req dto.SetPermissionsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetPermissions(c.Param("id"), req.Permissions)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GrantPermission(c *gin.Context) {
	if err := h.userService.GrantPermission(c.Param("id"), c.Param("permission")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) RevokePermission(c *gin.Context) {
	if err := h.userService.RevokePermission(c.Param("id"), c.Param("permission")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// authorizeOwn gates routes built on the ".me"/".all" ability pair: the
// RBAC grant decides ownership semantics, and a presented token must
// still cover the scope pair.
func (h *UserHandler) authorizeOwn(c *gin.Context, prefix, ownerID string) bool {
	sub := middleware.Subject(c)
	user := middleware.CurrentUser(c)

	if !access.AllowsOwn(sub, prefix, ownerID) {
		if user == nil {
			apperrors.Handle(c, apperrors.Unauthenticated("User not authenticated"))
		} else {
			apperrors.Handle(c, apperrors.Forbidden("Missing ability: "+prefix))
		}
		return false
	}

	if user != nil {
		scopes := middleware.TokenScopes(c)
		if !access.ScopeCovers(scopes, prefix+".all") && !access.ScopeCovers(scopes, prefix+".me") {
			apperrors.Handle(c, apperrors.Forbidden("Token scope does not cover: "+prefix))
			return false
		}
	}

	return true
}
