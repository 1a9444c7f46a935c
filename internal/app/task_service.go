package app

import (
	"errors"
	"unicode/utf8"

	"todoapi/internal/model"
	"todoapi/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

const maxTitleLength = 500

type TaskService struct {
	taskRepo *repository.TaskRepository
}

type CreateTaskInput struct {
	UserID string
	Title  string
}

// UpdateTaskInput carries a partial patch: nil fields are left untouched.
type UpdateTaskInput struct {
	UserID    string
	TaskID    string
	Title     *string
	Completed *bool
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) List(userID string) ([]model.Task, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.taskRepo.ListByUserID(userID)
}

func (s *TaskService) Create(input CreateTaskInput) (*model.Task, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}
	// Titles are stored verbatim; the bound is 1-500 characters, not bytes.
	if !validTitle(input.Title) {
		return nil, ErrInvalidInput
	}

	task := &model.Task{
		UserID: input.UserID,
		Title:  input.Title,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func validTitle(title string) bool {
	return title != "" && utf8.RuneCountInString(title) <= maxTitleLength
}

func (s *TaskService) Get(userID, taskID string) (*model.Task, error) {
	if userID == "" || taskID == "" {
		return nil, ErrInvalidInput
	}
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) Update(input UpdateTaskInput) (*model.Task, error) {
	if input.UserID == "" || input.TaskID == "" {
		return nil, ErrInvalidInput
	}

	task, err := s.taskRepo.GetByIDAndUserID(input.TaskID, input.UserID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if input.Title != nil {
		if !validTitle(*input.Title) {
			return nil, ErrInvalidInput
		}
		task.Title = *input.Title
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(userID, taskID string) error {
	if userID == "" || taskID == "" {
		return ErrInvalidInput
	}
	deleted, err := s.taskRepo.DeleteByIDAndUserID(taskID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
