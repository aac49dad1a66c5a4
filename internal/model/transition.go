package model

import "time"

// Start begins or resumes work on the task. Legal from NOT_STARTED and
// PAUSED only.
func (t *Task) Start(now time.Time) error {
	switch t.Status() {
	case StatusNotStarted, StatusPaused:
		return t.append(KindStart, now)
	}
	return newInvalidTransition(t.Status(), KindStart)
}

// Pause suspends a running task. Legal from RUNNING only.
func (t *Task) Pause(now time.Time) error {
	if t.Status() != StatusRunning {
		return newInvalidTransition(t.Status(), KindPause)
	}
	return t.append(KindPause, now)
}

// Complete finishes the task. Legal from any non-terminal state; once
// completed the task accepts no further transitions.
func (t *Task) Complete(now time.Time) error {
	if t.Status() == StatusCompleted {
		return newInvalidTransition(t.Status(), KindComplete)
	}
	return t.append(KindComplete, now)
}

// append records one event, keeping timestamps non-decreasing. A clock
// reading earlier than the last event would corrupt the history, so it
// is rejected instead of recorded.
func (t *Task) append(kind EventKind, now time.Time) error {
	if n := len(t.Events); n > 0 && now.Before(t.Events[n-1].At) {
		return newMalformedHistory(t.ID, "transition timestamp precedes last recorded event")
	}
	t.Events = append(t.Events, TransitionEvent{Kind: kind, At: now})
	return nil
}
