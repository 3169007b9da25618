package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biotrack/internal/services"
)

type RegistrationHandler struct {
	registration services.RegistrationService
}

func NewRegistrationHandler(registration services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// @Summary      Start registration
// @Description  Creates a pending account and emails a verification code
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        profile  body      services.RegistrationRequest  true  "Registration profile"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /register [post]
func (h *RegistrationHandler) Start(c *gin.Context) {
	var req services.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.registration.Start(&req)
	if err != nil {
		respondServiceError(c, "register:start", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Verification code sent",
		"account": account,
	})
}

// @Summary      Confirm registration
// @Description  Verifies the emailed code and activates the account
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /register/confirm [post]
func (h *RegistrationHandler) Confirm(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.registration.Confirm(req.Email, req.Code)
	if err != nil {
		respondServiceError(c, "register:confirm", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified",
		"account": account,
	})
}

func (h *RegistrationHandler) Resend(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registration.Resend(req.Email); err != nil {
		respondServiceError(c, "register:resend", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *RegistrationHandler) State(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	st, err := h.registration.State(email)
	if err != nil {
		respondServiceError(c, "register:state", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
