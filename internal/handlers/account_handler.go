package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biotrack/internal/models"
	"biotrack/internal/repositories"
)

type AccountHandler struct {
	accounts repositories.AccountRepository
}

func NewAccountHandler(accounts repositories.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// @Summary      Текущий аккаунт
// @Tags         Accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Account
// @Failure      401  {object}  map[string]string
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, _ := getAccountAndRole(c)
	if accountID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := h.accounts.GetByID(accountID)
	if err != nil {
		respondServiceError(c, "accounts:me", err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// List — только для админов; пагинация как ?limit=&offset=.
func (h *AccountHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	list, err := h.accounts.List(limit, offset)
	if err != nil {
		respondServiceError(c, "accounts:list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Count — общее число аккаунтов, опционально с разбивкой по статусу.
func (h *AccountHandler) Count(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		switch status {
		case models.AccountStatusStarted, models.AccountStatusAwaiting, models.AccountStatusVerified:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		n, err := h.accounts.GetCountByStatus(status)
		if err != nil {
			respondServiceError(c, "accounts:count", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "count": n})
		return
	}

	n, err := h.accounts.GetCount()
	if err != nil {
		respondServiceError(c, "accounts:count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
