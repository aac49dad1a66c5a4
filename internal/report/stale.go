package report

import (
	"sort"
	"strings"
	"time"

	"github.com/dori/worklog/internal/model"
)

// BuildStale finds tasks left incomplete on a previous day. Only
// today's tasks are allowed to be open; anything older that is not
// COMPLETED is a log the user forgot to close out.
func BuildStale(tasks []*model.Task, now time.Time) ([]DaySection, error) {
	today := DayScope(now)
	byDay := make(map[time.Time][]Row)

	for _, t := range tasks {
		if t.Status() == model.StatusCompleted {
			continue
		}
		last := t.CreatedAt
		if n := len(t.Events); n > 0 {
			last = t.Events[n-1].At
		}
		if !last.Before(today.Start) {
			continue
		}

		minutes, err := t.ActiveMinutes(now)
		if err != nil {
			return nil, err
		}
		day := DayScope(last).Start
		byDay[day] = append(byDay[day], Row{
			ID:          t.ID,
			Description: t.Description,
			Minutes:     minutes,
			StatusLabel: string(t.Status()),
			Notes:       t.Notes,
		})
	}

	days := make([]DaySection, 0, len(byDay))
	for day, rows := range byDay {
		days = append(days, DaySection{Date: day, Rows: rows})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	return days, nil
}

// RenderStale renders the stale-task audit with a heading per day.
func RenderStale(days []DaySection) string {
	if len(days) == 0 {
		return "No errors found"
	}

	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(dateStyle.Render(day.Date.Format("2006-01-02")))
		for _, row := range day.Rows {
			b.WriteByte('\n')
			b.WriteString(renderRow(row, true))
		}
	}
	return b.String()
}
