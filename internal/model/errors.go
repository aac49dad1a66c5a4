package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the task core. Callers match with errors.Is;
// the wrapped messages carry the user-facing context.
var (
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrTaskNotFound        = errors.New("task not found")
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier")
	ErrMalformedHistory    = errors.New("malformed event history")
)

func newInvalidTransition(status Status, action EventKind) error {
	return fmt.Errorf("%w: cannot %s a task that is %s",
		ErrInvalidTransition, strings.ToLower(string(action)), status)
}

func newTaskNotFound(fragment string) error {
	return fmt.Errorf("%w: no task id contains %q", ErrTaskNotFound, fragment)
}

func newAmbiguousIdentifier(fragment string, candidates []string) error {
	return fmt.Errorf("%w: %q matches %d tasks:\n  %s",
		ErrAmbiguousIdentifier, fragment, len(candidates),
		strings.Join(candidates, "\n  "))
}

func newMalformedHistory(taskID, reason string) error {
	return fmt.Errorf("%w: task %s: %s", ErrMalformedHistory, taskID, reason)
}
