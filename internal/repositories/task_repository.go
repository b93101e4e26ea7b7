package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/internal/models"
)

// TaskRepository is the store adapter: owner-scoped CRUD over task
// documents with merge-update semantics. Field updates touch only the
// columns they name; the subtask sequence is always written as a whole
// behind an optimistic version check.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		First(&task, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// UpdateFields merges the given columns into the task document. Columns
// not named are left untouched, so concurrent writers of unrelated
// fields never clobber each other.
func (r *TaskRepository) UpdateFields(ctx context.Context, ownerID, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// UpdateSubtasks replaces the whole subtask sequence, guarded by the
// version read alongside it. A stale version means another writer got
// in between the read and this write.
func (r *TaskRepository) UpdateSubtasks(
	ctx context.Context,
	ownerID, id string,
	expectedVersion uint,
	subtasks model.SubtaskList,
) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND owner_id = ? AND version = ?", id, ownerID, expectedVersion).
		Updates(map[string]interface{}{
			"subtasks": subtasks,
			"version":  gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
