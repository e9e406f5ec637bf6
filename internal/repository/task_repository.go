package repository

import (
	"github.com/mfernan/user-tasks-api/internal/database"
	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and skip/limit truncation
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	if filter.Limit == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	query := r.db.Model(&models.Task{}).Order("id")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	paginate := database.Paginate(utils.PaginationParams{Skip: filter.Skip, Limit: filter.Limit})
	if err := query.Scopes(paginate).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and reports whether a row was actually removed
func (r *GormTaskRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
