package datamodels

import (
	"time"

	model "task-board.com/task-board/internal/models"
)

type CreateTaskRequest struct {
	Title          string `json:"title"`
	InitialSubtask string `json:"initial_subtask,omitempty"`
}

type MoveTaskRequest struct {
	Status string `json:"status"`
}

// UpdateTaskRequest carries only the fields to merge; absent fields
// are left untouched.
type UpdateTaskRequest struct {
	Title     *string    `json:"title,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

type AddSubtaskRequest struct {
	Title string     `json:"title"`
	Date  *time.Time `json:"date,omitempty"`
}

type UpdateSubtaskRequest struct {
	Title     *string    `json:"title,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

type ReorderSubtasksRequest struct {
	Subtasks []model.Subtask `json:"subtasks"`
}

type PlanOutcome struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type PlanResponse struct {
	Outcomes []PlanOutcome `json:"outcomes"`
}
