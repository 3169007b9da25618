package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biotrack/internal/models"
	"biotrack/internal/services"
)

type AuthHandler struct {
	login    services.LoginService
	sessions services.SessionService
	resets   services.PasswordResetService
}

func NewAuthHandler(login services.LoginService, sessions services.SessionService, resets services.PasswordResetService) *AuthHandler {
	return &AuthHandler{login: login, sessions: sessions, resets: resets}
}

// @Summary      Вход в систему
// @Description  Аутентифицирует по email и паролю, возвращает пару токенов
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  services.AuthTokens
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.login.ByPassword(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, "auth:login", err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// LoginCode — запрос одноразового кода на email. Ответ всегда 200,
// независимо от того, существует ли аккаунт.
func (h *AuthHandler) LoginCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.login.RequestCode(req.Email); err != nil {
		respondServiceError(c, "auth:login-code", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a code has been sent"})
}

func (h *AuthHandler) LoginCodeConfirm(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.login.ConfirmCode(req.Email, req.Code)
	if err != nil {
		respondServiceError(c, "auth:login-code-confirm", err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// @Summary      Обновление токенов
// @Description  Ротация refresh-токена, старый становится недействительным
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  services.AuthTokens
// @Failure      401  {object}  map[string]string
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.sessions.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, "auth:refresh", err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.Logout(req.RefreshToken); err != nil {
		respondServiceError(c, "auth:logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// PasswordResetRequest — всегда 200, письма получают только существующие
// верифицированные аккаунты.
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resets.RequestReset(req.Email); err != nil {
		respondServiceError(c, "auth:reset-request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resets.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondServiceError(c, "auth:reset-confirm", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
