package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biotrack/internal/models"
	"biotrack/internal/pdf"
	"biotrack/internal/repositories"
)

type ReportHandler struct {
	accounts  repositories.AccountRepository
	generator pdf.Generator
}

func NewReportHandler(accounts repositories.AccountRepository, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{accounts: accounts, generator: generator}
}

// AccountsPDF — сводный отчёт по аккаунтам; только для админов.
// @Summary      Отчёт по аккаунтам (PDF)
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      403  {object}  map[string]string
// @Router       /reports/accounts.pdf [get]
func (h *ReportHandler) AccountsPDF(c *gin.Context) {
	accounts, err := h.accounts.List(1000, 0)
	if err != nil {
		respondServiceError(c, "reports:accounts", err)
		return
	}

	totals := map[string]int{}
	for _, status := range []string{
		models.AccountStatusStarted,
		models.AccountStatusAwaiting,
		models.AccountStatusVerified,
	} {
		n, err := h.accounts.GetCountByStatus(status)
		if err != nil {
			respondServiceError(c, "reports:accounts", err)
			return
		}
		totals[status] = n
	}

	data, err := h.generator.AccountsReport(accounts, totals)
	if err != nil {
		respondServiceError(c, "reports:accounts", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="accounts.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
