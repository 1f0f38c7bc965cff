package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/events"
	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
	"idm_backend/internal/services/dto"
)

type ClientHandler struct {
	*BaseHandler
	clientService services.ClientService
	dispatcher    *events.Dispatcher
}

func NewClientHandler(base *BaseHandler, clientService services.ClientService, dispatcher *events.Dispatcher) *ClientHandler {
	return &ClientHandler{
		BaseHandler:   base,
		clientService: clientService,
		dispatcher:    dispatcher,
	}
}

func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients", middleware.RequireAbility("clients.manage"))
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.GET("/:id", h.Get)
		clients.PATCH("/:id", h.Update)
		clients.DELETE("/:id", h.Revoke)
	}

	tokens := rg.Group("/tokens", middleware.RequireAuth())
	{
		tokens.POST("/personal", h.IssuePersonalToken)
	}
}

func (h *ClientHandler) List(c *gin.Context) {
	p, ok := h.BindPagination(c)
	if !ok {
		return
	}

	result, err := h.clientService.All(p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, evs, err := h.clientService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusCreated, resp)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientService.FindByID(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Revoke(c *gin.Context) {
	if err := h.clientService.Revoke(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) IssuePersonalToken(c *gin.Context) {
	var req dto.IssuePersonalTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.clientService.IssuePersonalToken(middleware.CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
