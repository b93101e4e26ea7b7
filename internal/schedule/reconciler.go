package schedule

import (
	"context"
	"log"
	"time"

	model "task-board.com/task-board/internal/models"
)

// TaskUpdater is the slice of the mutation service the reconciler
// needs: one merge-update per task.
type TaskUpdater interface {
	UpdateTask(ctx context.Context, ownerID, taskID string, update model.TaskUpdate) error
}

type OutcomeStatus string

const (
	OutcomeUpdated OutcomeStatus = "updated"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome records what happened to one task during a reconcile pass.
type Outcome struct {
	TaskID string
	Status OutcomeStatus
	Err    error
}

// Reconcile diffs after against before (matched by id) on status and
// start time, and issues one update per changed task carrying both
// fields. There is no per-field diffing. One task's failure never
// aborts the pass; each changed task gets its own outcome. A task in
// after with no match in before is recorded as skipped — the optimizer
// never invents tasks, so a mismatch means something was deleted
// underneath us, which this system tolerates.
func Reconcile(
	ctx context.Context,
	ownerID string,
	before, after []model.Task,
	updater TaskUpdater,
) []Outcome {
	prev := make(map[string]model.Task, len(before))
	for _, t := range before {
		prev[t.ID] = t
	}

	var outcomes []Outcome
	for _, t := range after {
		old, ok := prev[t.ID]
		if !ok {
			log.Printf("reconcile: task %s not in previous snapshot, skipping", t.ID)
			outcomes = append(outcomes, Outcome{TaskID: t.ID, Status: OutcomeSkipped})
			continue
		}
		if old.Status == t.Status && sameInstant(old.StartTime, t.StartTime) {
			continue
		}

		status := t.Status
		update := model.TaskUpdate{
			Status:       &status,
			StartTime:    t.StartTime,
			SetStartTime: true,
		}
		if err := updater.UpdateTask(ctx, ownerID, t.ID, update); err != nil {
			log.Printf("reconcile: update for task %s failed: %v", t.ID, err)
			outcomes = append(outcomes, Outcome{TaskID: t.ID, Status: OutcomeFailed, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{TaskID: t.ID, Status: OutcomeUpdated})
	}
	return outcomes
}

// sameInstant compares two optional timestamps at millisecond
// precision, with two absent values equal.
func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UnixMilli() == b.UnixMilli()
}
