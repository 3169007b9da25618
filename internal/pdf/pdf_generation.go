package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"biotrack/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	AccountsReport(accounts []*models.Account, totals map[string]int) ([]byte, error)
}

// ReportGenerator — реализация поверх gofpdf, отдаёт PDF в память.
type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) AccountsReport(accounts []*models.Account, totals map[string]int) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("BioTrack accounts report", false)
	pdf.SetAuthor("BioTrack", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Accounts report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ===== Сводка по статусам
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Totals", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, status := range []string{
		models.AccountStatusStarted,
		models.AccountStatusAwaiting,
		models.AccountStatusVerified,
	} {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d", status, totals[status]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ===== Таблица
	type col struct {
		title string
		width float64
	}
	cols := []col{
		{"ID", 15},
		{"Email", 75},
		{"Role", 25},
		{"Status", 45},
		{"Created", 45},
		{"Verified", 45},
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range cols {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for _, a := range accounts {
		verified := "-"
		if a.VerifiedAt != nil {
			verified = a.VerifiedAt.Format("2006-01-02 15:04")
		}
		row := []string{
			fmt.Sprintf("%d", a.ID),
			a.Email,
			a.Role,
			a.Status,
			a.CreatedAt.Format("2006-01-02 15:04"),
			verified,
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, 6, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 8,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
