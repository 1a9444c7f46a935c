package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUserID(userID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	return tasks, nil
}

// GetByIDAndUserID filters by id and owner in a single predicate so an
// existing task owned by someone else is indistinguishable from a missing one.
func (r *TaskRepository) GetByIDAndUserID(taskID, userID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task failed: %w", err)
	}
	return &task, nil
}

// Update persists the full row; gorm refreshes updated_at on save.
func (r *TaskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteByIDAndUserID(taskID, userID string) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&model.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("delete task failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
