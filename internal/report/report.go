package report

import (
	"math"
	"strconv"
	"time"

	"github.com/dori/worklog/internal/model"
)

// Scope is the half-open window [Start, End) a report aggregates over,
// in the date's own location.
type Scope struct {
	Start time.Time
	End   time.Time
}

// DayScope covers the calendar day containing date.
func DayScope(date time.Time) Scope {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Scope{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthScope covers the calendar month containing date.
func MonthScope(date time.Time) Scope {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	return Scope{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window.
func (s Scope) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// clip returns the minutes of iv that overlap the window. Intervals
// spanning a window edge are split there, so a stretch of work crossing
// midnight only counts the minutes inside each day.
func (s Scope) clip(iv model.Interval) float64 {
	start, end := iv.Start, iv.End
	if start.Before(s.Start) {
		start = s.Start
	}
	if end.After(s.End) {
		end = s.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}

// Row is one report line for a task selected by the scope.
type Row struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Minutes     float64  `json:"minutes"`
	StatusLabel string   `json:"status,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Report is the aggregation output for one scope: a row per selected
// task plus the grand total.
type Report struct {
	Rows         []Row
	TotalMinutes float64
}

// Build selects every task with at least one event inside the scope and
// attributes to it the active minutes overlapping the window. Tasks
// still running at evaluation time contribute their live duration up to
// now (clipped to the window) and carry their status as the row label;
// completed tasks carry a blank label and a fixed historical value.
func Build(tasks []*model.Task, scope Scope, now time.Time) (*Report, error) {
	r := &Report{}

	for _, t := range tasks {
		if !anyEventIn(t, scope) {
			continue
		}

		intervals, err := t.Intervals(now)
		if err != nil {
			return nil, err
		}
		var minutes float64
		for _, iv := range intervals {
			minutes += scope.clip(iv)
		}

		var label string
		if status := t.Status(); status != model.StatusCompleted {
			label = string(status)
		}

		r.Rows = append(r.Rows, Row{
			ID:          t.ID,
			Description: t.Description,
			Minutes:     minutes,
			StatusLabel: label,
			Notes:       t.Notes,
		})
		r.TotalMinutes += minutes
	}

	return r, nil
}

func anyEventIn(t *model.Task, scope Scope) bool {
	for _, ev := range t.Events {
		if scope.Contains(ev.At) {
			return true
		}
	}
	return false
}

// Hours is the whole-hour part of the grand total.
func (r *Report) Hours() float64 {
	return math.Floor(r.TotalMinutes / 60)
}

// RemainderMinutes is what is left after the whole hours, with
// fractional precision.
func (r *Report) RemainderMinutes() float64 {
	return math.Mod(r.TotalMinutes, 60)
}

// DaySection is one day's rows inside a monthly report.
type DaySection struct {
	Date time.Time
	Rows []Row
}

// MonthReport breaks a month down day by day. TotalMinutes equals the
// sum of the day totals, each day counting only its own overlap.
type MonthReport struct {
	Scope        Scope
	Days         []DaySection
	TotalMinutes float64
}

// BuildMonth aggregates the calendar month containing date as a
// sequence of day reports. Days without any selected task are omitted.
func BuildMonth(tasks []*model.Task, date, now time.Time) (*MonthReport, error) {
	scope := MonthScope(date)
	m := &MonthReport{Scope: scope}

	for day := scope.Start; day.Before(scope.End); day = day.AddDate(0, 0, 1) {
		daily, err := Build(tasks, DayScope(day), now)
		if err != nil {
			return nil, err
		}
		if len(daily.Rows) == 0 {
			continue
		}
		m.Days = append(m.Days, DaySection{Date: day, Rows: daily.Rows})
		m.TotalMinutes += daily.TotalMinutes
	}

	return m, nil
}

// Hours is the whole-hour part of the month total.
func (m *MonthReport) Hours() float64 {
	return math.Floor(m.TotalMinutes / 60)
}

// RemainderMinutes is the month total left after the whole hours.
func (m *MonthReport) RemainderMinutes() float64 {
	return math.Mod(m.TotalMinutes, 60)
}

// formatMinutes renders a minute count the way the reports print
// durations: whole values keep one decimal, fractional values keep
// their full precision.
func formatMinutes(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
