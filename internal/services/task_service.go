package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/repository"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrInvalidPriority    = errors.New("priority must be between 1 and 5")
	ErrTaskDeletionFailed = errors.New("error deleting task")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task. A nil Priority means
// the field was absent and the default applies; an explicit value is
// validated as-is.
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    *int
	DueDate     *time.Time
}

// TaskPatch represents a partial update. Only non-nil fields are applied;
// ClearDueDate distinguishes "due_date": null from an absent field. The
// owning user is immutable after creation and therefore not patchable.
type TaskPatch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	UserID    *uint64
	Completed *bool
	Skip      int
	Limit     int
}

// Create creates a task owned by the given user. The owner must exist before
// anything is inserted.
func (s *TaskService) Create(userID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	priority := models.MinTaskPriority
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    priority,
		DueDate:     input.DueDate,
		UserID:      userID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// List returns tasks matching the provided filters.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		UserID:    input.UserID,
		Completed: input.Completed,
		Skip:      input.Skip,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListForUser returns the tasks owned by a user. The user must exist.
func (s *TaskService) ListForUser(userID uint64, skip, limit int) ([]models.Task, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.List(ListTasksInput{
		UserID: &userID,
		Skip:   skip,
		Limit:  limit,
	})
}

// Update applies a partial update to a task.
func (s *TaskService) Update(id uint64, patch TaskPatch) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		if !models.ValidPriority(*patch.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task. A delete that removes nothing after the existence
// check maps to ErrTaskDeletionFailed.
func (s *TaskService) Delete(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	deleted, err := s.taskRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskDeletionFailed
	}

	return nil
}
