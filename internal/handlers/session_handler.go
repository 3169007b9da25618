package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biotrack/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// @Summary      Список сессий
// @Description  Возвращает сессии текущего аккаунта
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Session
// @Failure      401  {object}  map[string]string
// @Router       /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	accountID, _ := getAccountAndRole(c)
	if accountID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.sessions.ListByAccount(accountID)
	if err != nil {
		respondServiceError(c, "sessions:list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Revoke — отзыв конкретной сессии; только своей.
func (h *SessionHandler) Revoke(c *gin.Context) {
	accountID, _ := getAccountAndRole(c)
	if accountID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	if err := h.sessions.Revoke(sessionID, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		respondServiceError(c, "sessions:revoke", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session revoked"})
}
