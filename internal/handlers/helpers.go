package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biotrack/internal/services"
)

// более устойчиво к типам (int64 / int / float64 / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getAccountAndRole(c *gin.Context) (accountID int64, role string) {
	if id, ok := getInt64FromCtx(c, "account_id"); ok {
		accountID = id
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return
}

// respondServiceError — мапит доменные сентинели на HTTP-статусы.
// Тексты ответов намеренно общие: ничего про внутренности и про то,
// существует ли email.
func respondServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired, please request a new one"})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many attempts, please request a new code"})
	case errors.Is(err, services.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
	case errors.Is(err, services.ErrResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try later"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
	case errors.Is(err, services.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
	default:
		log.Printf("[%s] internal error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
