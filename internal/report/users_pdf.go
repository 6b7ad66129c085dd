// Package report renders user listings as downloadable documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/prperemyshlev/user-service/internal/domain"
)

type column struct {
	title string
	width float64
	value func(u domain.User) string
}

var userColumns = []column{
	{"ID", 15, func(u domain.User) string { return fmt.Sprintf("%d", u.ID) }},
	{"Nome", 55, func(u domain.User) string { return u.Name }},
	{"Usuário", 35, func(u domain.User) string { return u.Username }},
	{"Telefone", 35, func(u domain.User) string { return u.Phone }},
	{"Status", 20, func(u domain.User) string { return statusLabel(u.IsActive) }},
	{"Cadastro", 30, func(u domain.User) string { return u.CreatedAt.Format("02/01/2006") }},
}

func statusLabel(active bool) string {
	if active {
		return "Ativo"
	}
	return "Inativo"
}

// UsersPDF renders the users as an A4 table
func UsersPDF(users []domain.User, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Usuários", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Relatório de usuários"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Gerado em %s - %d registros", generatedAt.Format("02/01/2006 15:04"), len(users))))
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range userColumns {
			pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, u := range users {
		if pdf.GetY()+6 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		for _, c := range userColumns {
			pdf.CellFormat(c.width, 6, tr(c.value(u)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render users pdf: %w", err)
	}

	return buf.Bytes(), nil
}
