package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"task-board.com/task-board/internal/constants"
	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/internal/models"
	"task-board.com/task-board/internal/notify"
	repository "task-board.com/task-board/internal/repositories"
	"task-board.com/task-board/internal/schedule"
)

// defaultDeadline is how far out a freshly added task's advisory
// deadline is set.
const defaultDeadline = 24 * time.Hour

// TaskService exposes the named task and subtask operations. Each one
// is a single store write (subtask operations are one read plus one
// write of the whole sequence) followed by a change publish. Failures
// are returned to the caller as-is; nothing here retries.
//
// An empty owner id means no owner scope: reads yield empty results
// and mutations quietly do nothing.
type TaskService struct {
	repo     *repository.TaskRepository
	notifier notify.Notifier
}

func NewTaskService(repo *repository.TaskRepository, notifier notify.Notifier) *TaskService {
	return &TaskService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	if ownerID == "" {
		return []model.Task{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	if ownerID == "" {
		return nil, apperrors.ErrTaskNotFound
	}
	return s.repo.FindByID(ctx, ownerID, taskID)
}

// AddTask creates a task in Upcoming with a deadline a day out and,
// when an initial subtask title is given, one subtask dated now.
func (s *TaskService) AddTask(ctx context.Context, ownerID, title, initialSubtask string) (*model.Task, error) {
	if ownerID == "" {
		return nil, nil
	}

	now := time.Now()
	deadline := now.Add(defaultDeadline)

	task := &model.Task{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           title,
		DurationMinutes: 0,
		Deadline:        &deadline,
		Status:          constants.StatusUpcoming,
		Subtasks:        model.SubtaskList{},
		Version:         1,
	}
	if initialSubtask != "" {
		date := now
		task.Subtasks = model.SubtaskList{{
			ID:    uuid.NewString(),
			Title: initialSubtask,
			Date:  &date,
		}}
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, ownerID)
	return task, nil
}

// MoveTask sets the status and nothing else.
func (s *TaskService) MoveTask(ctx context.Context, ownerID, taskID string, status constants.TaskStatus) error {
	if ownerID == "" {
		return nil
	}

	err := s.repo.UpdateFields(ctx, ownerID, taskID, map[string]interface{}{
		"status": status,
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ownerID)
	return nil
}

// UpdateTask merges the given fields into the task. Last writer wins
// per field set.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, update model.TaskUpdate) error {
	if ownerID == "" {
		return nil
	}

	if err := s.repo.UpdateFields(ctx, ownerID, taskID, update.Fields()); err != nil {
		return err
	}

	s.publish(ctx, ownerID)
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if ownerID == "" {
		return nil
	}

	if err := s.repo.Delete(ctx, ownerID, taskID); err != nil {
		return err
	}

	s.publish(ctx, ownerID)
	return nil
}

func (s *TaskService) ToggleSubtask(ctx context.Context, ownerID, taskID, subtaskID string) error {
	return s.updateTaskSubtasks(ctx, ownerID, taskID, func(subtasks model.SubtaskList) model.SubtaskList {
		out := make(model.SubtaskList, len(subtasks))
		copy(out, subtasks)
		for i := range out {
			if out[i].ID == subtaskID {
				out[i].Completed = !out[i].Completed
			}
		}
		return out
	})
}

// AddSubtask appends to the end of the sequence; the date defaults to
// now when none is given.
func (s *TaskService) AddSubtask(ctx context.Context, ownerID, taskID, title string, date *time.Time) error {
	return s.updateTaskSubtasks(ctx, ownerID, taskID, func(subtasks model.SubtaskList) model.SubtaskList {
		d := time.Now()
		if date != nil {
			d = *date
		}
		out := make(model.SubtaskList, len(subtasks), len(subtasks)+1)
		copy(out, subtasks)
		return append(out, model.Subtask{
			ID:    uuid.NewString(),
			Title: title,
			Date:  &d,
		})
	})
}

func (s *TaskService) UpdateSubtask(ctx context.Context, ownerID, taskID, subtaskID string, update model.SubtaskUpdate) error {
	return s.updateTaskSubtasks(ctx, ownerID, taskID, func(subtasks model.SubtaskList) model.SubtaskList {
		out := make(model.SubtaskList, len(subtasks))
		copy(out, subtasks)
		for i := range out {
			if out[i].ID == subtaskID {
				out[i] = update.Apply(out[i])
			}
		}
		return out
	})
}

// DeleteSubtask removes the matching subtask, keeping the relative
// order of the rest.
func (s *TaskService) DeleteSubtask(ctx context.Context, ownerID, taskID, subtaskID string) error {
	return s.updateTaskSubtasks(ctx, ownerID, taskID, func(subtasks model.SubtaskList) model.SubtaskList {
		out := make(model.SubtaskList, 0, len(subtasks))
		for _, sub := range subtasks {
			if sub.ID != subtaskID {
				out = append(out, sub)
			}
		}
		return out
	})
}

// ReorderSubtasks replaces the sequence with the caller-supplied
// order. The caller is trusted to pass a permutation of the existing
// subtasks; this is not validated.
func (s *TaskService) ReorderSubtasks(ctx context.Context, ownerID, taskID string, subtasks model.SubtaskList) error {
	return s.updateTaskSubtasks(ctx, ownerID, taskID, func(model.SubtaskList) model.SubtaskList {
		return subtasks
	})
}

// updateTaskSubtasks is the shared read-modify-write: fetch the
// authoritative sequence (never a possibly stale local copy), apply
// the transform, write the whole sequence back under the version read
// with it. A concurrent sequence write surfaces as ErrOptimisticLock.
// A task deleted underneath us is logged and absorbed.
func (s *TaskService) updateTaskSubtasks(
	ctx context.Context,
	ownerID, taskID string,
	transform func(model.SubtaskList) model.SubtaskList,
) error {
	if ownerID == "" {
		return nil
	}

	task, err := s.repo.FindByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			log.Printf("subtask update: task %s gone, skipping", taskID)
			return nil
		}
		return err
	}

	if err := s.repo.UpdateSubtasks(ctx, ownerID, taskID, task.Version, transform(task.Subtasks)); err != nil {
		return err
	}

	s.publish(ctx, ownerID)
	return nil
}

// Plan runs the optimizer over the owner's current tasks and persists
// only the deltas, reporting per-task outcomes.
func (s *TaskService) Plan(ctx context.Context, ownerID string, now time.Time) ([]schedule.Outcome, error) {
	if ownerID == "" {
		return nil, nil
	}

	before, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	after := schedule.Optimize(before, now)
	return schedule.Reconcile(ctx, ownerID, before, after, s), nil
}

func (s *TaskService) publish(ctx context.Context, ownerID string) {
	if err := s.notifier.Publish(ctx, ownerID); err != nil {
		log.Printf("failed to publish change for owner %s: %v", ownerID, err)
	}
}
