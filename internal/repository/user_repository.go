package repository

import (
	"github.com/mfernan/user-tasks-api/internal/database"
	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. The uniqueness check and the insert share one
// transaction so concurrent writers cannot slip a duplicate between them.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", user.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		return tx.Create(user).Error
	})
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with filtering and skip/limit truncation
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	if filter.Limit == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	query := r.db.Model(&models.User{}).Order("id")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}

	paginate := database.Paginate(utils.PaginationParams{Skip: filter.Skip, Limit: filter.Limit})
	if err := query.Scopes(paginate).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Update saves a user after re-checking email uniqueness against every other
// row, all inside one transaction.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", user.Email, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		return tx.Save(user).Error
	})
}

// Delete removes a user and all owned tasks in one transaction
func (r *GormUserRepository) Delete(id uint64) (bool, error) {
	var deleted bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}

		deleted = result.RowsAffected > 0
		return nil
	})

	return deleted, err
}
