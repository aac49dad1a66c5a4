package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dori/worklog/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func taskWithEvents(id, desc string, events ...model.TransitionEvent) *model.Task {
	return &model.Task{ID: id, Description: desc, Events: events}
}

func TestDayReportSingleCompletedTask(t *testing.T) {
	start := time.Date(2024, 6, 3, 8, 0, 0, 0, time.Local)
	task := taskWithEvents("task-1", "quarterly numbers",
		model.TransitionEvent{Kind: model.KindStart, At: start},
		model.TransitionEvent{Kind: model.KindComplete, At: start.Add(4 * time.Hour)},
	)

	r, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 3)), start.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(r.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(r.Rows))
	}
	row := r.Rows[0]
	if row.Minutes != 240 {
		t.Errorf("expected 240 minutes, got %v", row.Minutes)
	}
	if row.StatusLabel != "" {
		t.Errorf("completed rows carry no label, got %q", row.StatusLabel)
	}
	if r.Hours() != 4 || r.RemainderMinutes() != 0 {
		t.Errorf("expected 4 Hrs 0 minutes, got %v Hrs %v", r.Hours(), r.RemainderMinutes())
	}

	out, err := RenderDaily(r, FormatTerminal)
	if err != nil {
		t.Fatalf("RenderDaily failed: %v", err)
	}
	if !strings.Contains(out, "Total time: 4.0 Hrs 0.0 minutes") {
		t.Errorf("total line wrong:\n%s", out)
	}
	if !strings.Contains(out, "task-1 - quarterly numbers: 240.0") {
		t.Errorf("row line wrong:\n%s", out)
	}
}

func TestRunningTaskUsesLiveDuration(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local)
	task := taskWithEvents("task-run", "still going",
		model.TransitionEvent{Kind: model.KindStart, At: start},
	)

	scope := DayScope(day(2024, 6, 3))

	early, err := Build([]*model.Task{task}, scope, start.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	late, err := Build([]*model.Task{task}, scope, start.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if early.Rows[0].Minutes != 10 || late.Rows[0].Minutes != 30 {
		t.Errorf("live duration wrong: %v then %v", early.Rows[0].Minutes, late.Rows[0].Minutes)
	}
	if early.Rows[0].StatusLabel != "RUNNING" {
		t.Errorf("expected RUNNING label, got %q", early.Rows[0].StatusLabel)
	}
}

func TestIntervalSplitAtMidnight(t *testing.T) {
	// Work from 23:00 on the 3rd until 01:30 on the 4th.
	start := time.Date(2024, 6, 3, 23, 0, 0, 0, time.Local)
	task := taskWithEvents("task-night", "late shift",
		model.TransitionEvent{Kind: model.KindStart, At: start},
		model.TransitionEvent{Kind: model.KindComplete, At: start.Add(150 * time.Minute)},
	)
	now := start.Add(3 * time.Hour)

	third, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 3)), now)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	fourth, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 4)), now)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if third.TotalMinutes != 60 {
		t.Errorf("day of start should count 60 minutes, got %v", third.TotalMinutes)
	}
	if fourth.TotalMinutes != 90 {
		t.Errorf("day after midnight should count 90 minutes, got %v", fourth.TotalMinutes)
	}
}

func TestTasksOutsideScopeExcluded(t *testing.T) {
	start := time.Date(2024, 6, 2, 9, 0, 0, 0, time.Local)
	task := taskWithEvents("task-old", "yesterday's work",
		model.TransitionEvent{Kind: model.KindStart, At: start},
		model.TransitionEvent{Kind: model.KindComplete, At: start.Add(time.Hour)},
	)
	idle := &model.Task{ID: "task-idle", Description: "never started"}

	r, err := Build([]*model.Task{task, idle}, DayScope(day(2024, 6, 3)), start.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(r.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(r.Rows))
	}

	out, err := RenderDaily(r, FormatTerminal)
	if err != nil {
		t.Fatalf("RenderDaily failed: %v", err)
	}
	if out != "No tasks found" {
		t.Errorf("empty report should say so, got %q", out)
	}
}

func TestMonthSumsDayContributions(t *testing.T) {
	d1 := time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local)
	d2 := time.Date(2024, 6, 17, 14, 0, 0, 0, time.Local)
	other := time.Date(2024, 7, 1, 9, 0, 0, 0, time.Local)

	tasks := []*model.Task{
		taskWithEvents("task-a", "early june",
			model.TransitionEvent{Kind: model.KindStart, At: d1},
			model.TransitionEvent{Kind: model.KindComplete, At: d1.Add(90 * time.Minute)},
		),
		taskWithEvents("task-b", "mid june",
			model.TransitionEvent{Kind: model.KindStart, At: d2},
			model.TransitionEvent{Kind: model.KindComplete, At: d2.Add(30 * time.Minute)},
		),
		taskWithEvents("task-c", "july, out of scope",
			model.TransitionEvent{Kind: model.KindStart, At: other},
			model.TransitionEvent{Kind: model.KindComplete, At: other.Add(time.Hour)},
		),
	}

	m, err := BuildMonth(tasks, day(2024, 6, 15), other.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("BuildMonth failed: %v", err)
	}

	if len(m.Days) != 2 {
		t.Fatalf("expected 2 day sections, got %d", len(m.Days))
	}
	if m.TotalMinutes != 120 {
		t.Errorf("expected 120 minutes, got %v", m.TotalMinutes)
	}
	if m.Hours() != 2 || m.RemainderMinutes() != 0 {
		t.Errorf("expected 2 Hrs 0 minutes, got %v Hrs %v", m.Hours(), m.RemainderMinutes())
	}

	out := RenderMonth(m)
	if !strings.Contains(out, "2024-06-03") || !strings.Contains(out, "2024-06-17") {
		t.Errorf("month output missing date headings:\n%s", out)
	}
	if !strings.Contains(out, "Total time: 2.0 Hrs 0.0 minutes") {
		t.Errorf("month total wrong:\n%s", out)
	}
}

func TestRenderDailyJSON(t *testing.T) {
	start := time.Date(2024, 6, 3, 8, 0, 0, 0, time.Local)
	task := taskWithEvents("task-json", "serialize me",
		model.TransitionEvent{Kind: model.KindStart, At: start},
		model.TransitionEvent{Kind: model.KindComplete, At: start.Add(time.Hour)},
	)
	task.Notes = []string{"shipped"}

	r, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 3)), start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out, err := RenderDaily(r, FormatJSON)
	if err != nil {
		t.Fatalf("RenderDaily failed: %v", err)
	}
	for _, want := range []string{`"task-json"`, `"minutes":60`, `"shipped"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %s:\n%s", want, out)
		}
	}

	empty, err := RenderDaily(&Report{}, FormatJSON)
	if err != nil {
		t.Fatalf("RenderDaily failed: %v", err)
	}
	if empty != `"No tasks found"` {
		t.Errorf("empty json wrong: %s", empty)
	}
}

func TestRenderDailyUnsupportedFormat(t *testing.T) {
	if _, err := RenderDaily(&Report{}, Format("carrier-pigeon")); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestNotesRenderedAsBullets(t *testing.T) {
	start := time.Date(2024, 6, 3, 8, 0, 0, 0, time.Local)
	task := taskWithEvents("task-notes", "annotated",
		model.TransitionEvent{Kind: model.KindStart, At: start},
		model.TransitionEvent{Kind: model.KindComplete, At: start.Add(time.Minute)},
	)
	task.Notes = []string{"first note", "second note"}

	r, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 3)), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out, err := RenderDaily(r, FormatEmail)
	if err != nil {
		t.Fatalf("RenderDaily failed: %v", err)
	}
	if !strings.Contains(out, "\n  - first note\n  - second note") {
		t.Errorf("notes not rendered as bullets:\n%s", out)
	}
	if strings.Contains(out, "task-notes") {
		t.Errorf("email format must not include uuids:\n%s", out)
	}
}

func TestBuildSurfacesMalformedHistory(t *testing.T) {
	start := time.Date(2024, 6, 3, 8, 0, 0, 0, time.Local)
	task := taskWithEvents("task-bad", "corrupt",
		model.TransitionEvent{Kind: model.KindPause, At: start},
	)

	_, err := Build([]*model.Task{task}, DayScope(day(2024, 6, 3)), start.Add(time.Hour))
	if !errors.Is(err, model.ErrMalformedHistory) {
		t.Errorf("expected ErrMalformedHistory, got %v", err)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{240, "240.0"},
		{0, "0.0"},
		{15.5, "15.5"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Errorf("formatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
