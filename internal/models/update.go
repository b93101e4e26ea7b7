package model

import (
	"time"

	"task-board.com/task-board/internal/constants"
)

// TaskUpdate is a partial-field merge against a task document. Nil
// pointer fields are left untouched; StartTime and Deadline need the
// explicit Set flags because nil is also a legal value (clearing the
// column).
type TaskUpdate struct {
	Title        *string
	Status       *constants.TaskStatus
	StartTime    *time.Time
	SetStartTime bool
	Deadline     *time.Time
	SetDeadline  bool
}

func (u TaskUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.SetStartTime {
		fields["start_time"] = u.StartTime
	}
	if u.SetDeadline {
		fields["deadline"] = u.Deadline
	}
	return fields
}

// SubtaskUpdate merges into a single subtask of the sequence.
type SubtaskUpdate struct {
	Title     *string
	Completed *bool
	Date      *time.Time
	SetDate   bool
}

func (u SubtaskUpdate) Apply(s Subtask) Subtask {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Completed != nil {
		s.Completed = *u.Completed
	}
	if u.SetDate {
		s.Date = u.Date
	}
	return s
}
