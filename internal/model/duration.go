package model

import "time"

// Interval is one contiguous stretch of active work. End is the pairing
// PAUSE/COMPLETE timestamp, or the evaluation instant for a task that is
// still running.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length, never negative.
func (iv Interval) Duration() time.Duration {
	d := iv.End.Sub(iv.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Intervals reconstructs the active intervals from the event history,
// closing a trailing open START with now. It is a pure read: the task is
// not mutated and the result depends only on (events, now).
//
// The walk re-validates the history as it goes. A sequence this core
// never produced (pause before any start, events after a complete,
// timestamps running backwards) surfaces ErrMalformedHistory rather
// than a silently wrong total.
func (t *Task) Intervals(now time.Time) ([]Interval, error) {
	var (
		intervals []Interval
		state     = StatusNotStarted
		openStart time.Time
		prev      time.Time
	)

	for i, ev := range t.Events {
		if i > 0 && ev.At.Before(prev) {
			return nil, newMalformedHistory(t.ID, "event timestamps are not chronological")
		}
		prev = ev.At

		switch ev.Kind {
		case KindStart:
			if state != StatusNotStarted && state != StatusPaused {
				return nil, newMalformedHistory(t.ID, "START while already "+string(state))
			}
			state = StatusRunning
			openStart = ev.At
		case KindPause:
			if state != StatusRunning {
				return nil, newMalformedHistory(t.ID, "PAUSE while "+string(state))
			}
			state = StatusPaused
			intervals = append(intervals, Interval{Start: openStart, End: ev.At})
		case KindComplete:
			if state == StatusCompleted {
				return nil, newMalformedHistory(t.ID, "event recorded after COMPLETE")
			}
			if state == StatusRunning {
				intervals = append(intervals, Interval{Start: openStart, End: ev.At})
			}
			state = StatusCompleted
		default:
			return nil, newMalformedHistory(t.ID, "unknown event kind "+string(ev.Kind))
		}
	}

	if state == StatusRunning {
		end := now
		if end.Before(openStart) {
			end = openStart
		}
		intervals = append(intervals, Interval{Start: openStart, End: end})
	}

	return intervals, nil
}

// ActiveDuration sums the active intervals. Paused gaps contribute
// nothing; a task with no events reports zero.
func (t *Task) ActiveDuration(now time.Time) (time.Duration, error) {
	intervals, err := t.Intervals(now)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total, nil
}

// ActiveMinutes is ActiveDuration as fractional minutes, the unit the
// reports work in.
func (t *Task) ActiveMinutes(now time.Time) (float64, error) {
	d, err := t.ActiveDuration(now)
	if err != nil {
		return 0, err
	}
	return d.Minutes(), nil
}
