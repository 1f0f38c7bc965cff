package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idm_backend/internal/events"
	"idm_backend/internal/logger"
	"idm_backend/internal/middleware"
	"idm_backend/internal/services"
	"idm_backend/internal/services/dto"
	"idm_backend/pkg/apperrors"
)

type AuthHandler struct {
	*BaseHandler
	userService services.UserService
	dispatcher  *events.Dispatcher
}

func NewAuthHandler(base *BaseHandler, userService services.UserService, dispatcher *events.Dispatcher) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		userService: userService,
		dispatcher:  dispatcher,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.POST("/request-password-reset", h.RequestPasswordReset)
		auth.POST("/reset-password", h.ResetPassword)

		auth.POST("/verify-email", middleware.RequireAuth(), h.VerifyEmail)
		auth.GET("/me", middleware.RequireAuth(), h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
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

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.userService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResendVerification always answers with the same message so the
// endpoint cannot be used to probe which emails are registered.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	evs, err := h.userService.ResendVerification(req.Email)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "resend verification failed",
			"error", err.Error())
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a verification link has been sent",
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := middleware.CurrentUser(c)
	evs, err := h.userService.VerifyEmail(user.ID, req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, gin.H{"message": "Email successfully verified"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	evs, err := h.userService.RequestPasswordReset(req.Email)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "password reset request failed",
			"error", err.Error())
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a password reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.FindByEmail(req.Email)
	if err != nil {
		// An unknown email cannot match any stored token.
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Status == http.StatusNotFound {
			h.HandleServiceError(c, apperrors.InvalidPasswordResetToken())
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	evs, err := h.userService.ResetPassword(user.ID, req.Token, req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.dispatcher.Dispatch(c.Request.Context(), evs...)

	c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
