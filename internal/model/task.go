package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task, derived from its
// transition history. It is never stored on its own.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusRunning    Status = "RUNNING"
	StatusPaused     Status = "PAUSED"
	StatusCompleted  Status = "COMPLETED"
)

// EventKind is the action recorded by a transition event.
type EventKind string

const (
	KindStart    EventKind = "START"
	KindPause    EventKind = "PAUSE"
	KindComplete EventKind = "COMPLETE"
)

// TransitionEvent is one immutable state change. Timestamps are
// non-decreasing within a task's event sequence.
type TransitionEvent struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}

// Task represents one unit of tracked work
type Task struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Events      []TransitionEvent `json:"events,omitempty"`
	Notes       []string          `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewTask creates a task in the NOT_STARTED state with a fresh uuid.
func NewTask(description string, now time.Time) *Task {
	return &Task{
		ID:          uuid.New().String(),
		Description: description,
		CreatedAt:   now,
	}
}

// Status derives the task state from the last recorded event.
func (t *Task) Status() Status {
	if len(t.Events) == 0 {
		return StatusNotStarted
	}
	switch t.Events[len(t.Events)-1].Kind {
	case KindStart:
		return StatusRunning
	case KindPause:
		return StatusPaused
	case KindComplete:
		return StatusCompleted
	}
	return StatusNotStarted
}

// MatchesIdentifier reports whether fragment is a contiguous substring
// of the task id, so users can address tasks by a short piece of the
// uuid instead of the whole thing.
func (t *Task) MatchesIdentifier(fragment string) bool {
	return strings.Contains(t.ID, fragment)
}

// AddNote appends a free-text annotation. Notes never affect state.
func (t *Task) AddNote(note string) {
	t.Notes = append(t.Notes, note)
}

// Resolve finds the single task whose id contains fragment.
// Zero matches fail with ErrTaskNotFound, more than one with
// ErrAmbiguousIdentifier listing the candidate ids.
func Resolve(tasks []*Task, fragment string) (*Task, error) {
	var matches []*Task
	for _, t := range tasks {
		if t.MatchesIdentifier(fragment) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, newTaskNotFound(fragment)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, len(matches))
	for i, t := range matches {
		ids[i] = t.ID
	}
	return nil, newAmbiguousIdentifier(fragment, ids)
}
