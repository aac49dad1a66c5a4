package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Format selects the daily report output style.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatEmail    Format = "email"
	FormatJSON     Format = "json"
)

var (
	dateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	totalStyle = lipgloss.NewStyle().Bold(true)
)

// RenderDaily renders a day report. Terminal output prefixes each line
// with the task uuid so fragments can be copied straight into the next
// command; email output drops the uuids; json emits the raw rows.
func RenderDaily(r *Report, format Format) (string, error) {
	switch format {
	case FormatJSON:
		if len(r.Rows) == 0 {
			out, err := json.Marshal("No tasks found")
			return string(out), err
		}
		out, err := json.Marshal(r.Rows)
		return string(out), err
	case FormatTerminal, FormatEmail:
	default:
		return "", fmt.Errorf("output format %q not supported", format)
	}

	if len(r.Rows) == 0 {
		return "No tasks found", nil
	}

	var b strings.Builder
	for _, row := range r.Rows {
		b.WriteString(renderRow(row, format == FormatTerminal))
		b.WriteByte('\n')
	}
	b.WriteString(totalStyle.Render(totalLine(r.Hours(), r.RemainderMinutes())))
	return b.String(), nil
}

// RenderMonth renders a month report with a styled heading per day.
func RenderMonth(m *MonthReport) string {
	if len(m.Days) == 0 {
		return "No tasks found"
	}

	var b strings.Builder
	for _, day := range m.Days {
		b.WriteString(dateStyle.Render(day.Date.Format("2006-01-02")))
		b.WriteByte('\n')
		for _, row := range day.Rows {
			b.WriteString(renderRow(row, false))
			b.WriteByte('\n')
		}
	}
	b.WriteString(totalStyle.Render(totalLine(m.Hours(), m.RemainderMinutes())))
	return b.String()
}

func renderRow(row Row, withID bool) string {
	var b strings.Builder
	if withID {
		b.WriteString(row.ID)
		b.WriteByte(' ')
	}
	b.WriteString("- ")
	b.WriteString(row.Description)
	b.WriteString(": ")
	b.WriteString(formatMinutes(row.Minutes))
	if row.StatusLabel != "" {
		b.WriteByte(' ')
		b.WriteString(row.StatusLabel)
	}
	for _, note := range row.Notes {
		b.WriteString("\n  - ")
		b.WriteString(note)
	}
	return b.String()
}

func totalLine(hours, minutes float64) string {
	return fmt.Sprintf("Total time: %s Hrs %s minutes",
		formatMinutes(hours), formatMinutes(minutes))
}
