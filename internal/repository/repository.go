package repository

import (
	"errors"

	"github.com/mfernan/user-tasks-api/internal/models"
)

var (
	// ErrDuplicateEmail is returned when a create or update would leave two
	// live users sharing an email.
	ErrDuplicateEmail = errors.New("user repository: email already registered")
)

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Status   *models.UserStatus
	UserType *models.UserType
	Skip     int
	Limit    int
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID    *uint64
	Completed *bool
	Skip      int
	Limit     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. The email uniqueness check and the insert
	// run inside a single transaction; a collision aborts with
	// ErrDuplicateEmail.
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with filtering and skip/limit truncation
	List(filter UserFilter) ([]models.User, error)

	// Update saves a user. The email uniqueness check (excluding the user's
	// own row) and the write share one transaction.
	Update(user *models.User) error

	// Delete removes a user and all owned tasks in one transaction.
	// It reports whether a user row was actually removed.
	Delete(id uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and skip/limit truncation
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves a task
	Update(task *models.Task) error

	// Delete removes a task and reports whether a row was actually removed
	Delete(id uint64) (bool, error)
}
