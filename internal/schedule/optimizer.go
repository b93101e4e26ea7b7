package schedule

import (
	"time"

	"task-board.com/task-board/internal/constants"
	model "task-board.com/task-board/internal/models"
)

// slotWindow is how close an existing start time has to be to the
// candidate slot for the slot to count as taken. Coarse on purpose:
// this mirrors the product's "is the next hour already spoken for"
// heuristic, not true interval overlap.
const slotWindow = 60 * time.Second

// Optimize applies the two scheduling passes and returns a new list;
// the input is never mutated. Pass one demotes tasks whose allocated
// slot has fully elapsed back to Backlog and clears their start time,
// leaving Done tasks and unscheduled tasks alone. Pass two promotes
// the first Backlog task (by list position) into the next top-of-hour
// slot after now, unless some task already starts within a minute of
// that slot. At most one task is promoted per call.
//
// Deterministic in (tasks, now); synchronous; O(n).
func Optimize(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	for i := range out {
		t := &out[i]
		if t.StartTime == nil || t.Status == constants.StatusDone {
			continue
		}
		if endTime(t).Before(now) {
			t.Status = constants.StatusBacklog
			t.StartTime = nil
		}
	}

	candidate := NextSlot(now)
	if slotTaken(out, candidate) {
		return out
	}
	for i := range out {
		if out[i].Status != constants.StatusBacklog {
			continue
		}
		start := candidate
		out[i].Status = constants.StatusUpcoming
		out[i].StartTime = &start
		break
	}

	return out
}

// NextSlot is the next top-of-hour instant strictly after now.
func NextSlot(now time.Time) time.Time {
	return time.Date(
		now.Year(), now.Month(), now.Day(), now.Hour(),
		0, 0, 0, now.Location(),
	).Add(time.Hour)
}

func endTime(t *model.Task) time.Time {
	minutes := t.DurationMinutes
	if minutes < 0 {
		// The store does not reject negative durations; treat them
		// as zero rather than scheduling into the past.
		minutes = 0
	}
	return t.StartTime.Add(time.Duration(minutes) * time.Minute)
}

func slotTaken(tasks []model.Task, slot time.Time) bool {
	for i := range tasks {
		st := tasks[i].StartTime
		if st == nil {
			continue
		}
		d := st.Sub(slot)
		if d < 0 {
			d = -d
		}
		if d < slotWindow {
			return true
		}
	}
	return false
}
