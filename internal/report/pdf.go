package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

const pdfLineHeight = 5.5

// DefaultPDFPath is where the monthly PDF lands when the user does not
// pick a destination.
func DefaultPDFPath(m *MonthReport) string {
	name := fmt.Sprintf("Work_Log_For_%d_%d.pdf", m.Scope.Start.Year(), int(m.Scope.Start.Month()))
	return filepath.Join(os.TempDir(), name)
}

// WriteMonthPDF typesets a month report and writes it to path. The
// aggregation is untouched: this consumes the same rows and totals the
// terminal renderer does.
func WriteMonthPDF(m *MonthReport, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	title := fmt.Sprintf("Work Log For %s %d", m.Scope.Start.Month(), m.Scope.Start.Year())
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, day := range m.Days {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, day.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		for _, row := range day.Rows {
			line := fmt.Sprintf("%s: %s minutes", row.Description, formatMinutes(row.Minutes))
			if row.StatusLabel != "" {
				line += " " + row.StatusLabel
			}
			pdf.SetX(pdf.GetX() + 4)
			writeLinked(pdf, "- "+line)
			pdf.Ln(pdfLineHeight)

			for _, note := range row.Notes {
				pdf.SetX(pdf.GetX() + 10)
				writeLinked(pdf, "- "+note)
				pdf.Ln(pdfLineHeight)
			}
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, totalLine(m.Hours(), m.RemainderMinutes()), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// writeLinked writes a line of text, turning words that look like URLs
// into clickable "link" anchors.
func writeLinked(pdf *fpdf.Fpdf, text string) {
	for i, word := range strings.Fields(text) {
		if i > 0 {
			pdf.Write(pdfLineHeight, " ")
		}
		if strings.HasPrefix(word, "http") {
			pdf.WriteLinkString(pdfLineHeight, "link", word)
		} else {
			pdf.Write(pdfLineHeight, word)
		}
	}
}
