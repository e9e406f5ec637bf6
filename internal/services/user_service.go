package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidStatus        = errors.New("invalid user status")
	ErrInvalidUserType      = errors.New("invalid user type")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrUserDeletionFailed   = errors.New("error deleting user")
)

// UserService handles user business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents the required information to create a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Age      *int
	Password string
	Status   models.UserStatus
	UserType models.UserType
}

// UserPatch represents a partial update. Only non-nil fields are applied;
// ClearAge distinguishes "age": null from an absent age field.
type UserPatch struct {
	Name     *string
	Email    *string
	Age      *int
	ClearAge bool
	Status   *models.UserStatus
	UserType *models.UserType
	Password *string
}

// ListUsersInput represents filters for listing users.
type ListUsersInput struct {
	Active  *bool
	Premium *bool
	Skip    int
	Limit   int
}

// Create registers a new user. The cleartext password is replaced with a
// bcrypt hash before anything is persisted.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	if input.Status == "" {
		input.Status = models.UserStatusActive
	}
	if input.UserType == "" {
		input.UserType = models.UserTypeRegular
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !input.UserType.Valid() {
		return nil, ErrInvalidUserType
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Age:          input.Age,
		PasswordHash: string(hashedPassword),
		Status:       input.Status,
		UserType:     input.UserType,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetWithTasks retrieves a user by ID with the owned tasks loaded.
func (s *UserService) GetWithTasks(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// List returns users matching the optional activity and tier filters.
func (s *UserService) List(input ListUsersInput) ([]models.User, error) {
	filter := repository.UserFilter{
		Skip:  input.Skip,
		Limit: input.Limit,
	}

	if input.Active != nil {
		status := models.UserStatusInactive
		if *input.Active {
			status = models.UserStatusActive
		}
		filter.Status = &status
	}
	if input.Premium != nil {
		userType := models.UserTypeRegular
		if *input.Premium {
			userType = models.UserTypePremium
		}
		filter.UserType = &userType
	}

	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update applies a partial update. Fields absent from the patch are left
// untouched; a supplied password is re-hashed before the write.
func (s *UserService) Update(id uint64, patch UserPatch) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.ClearAge {
		user.Age = nil
	} else if patch.Age != nil {
		user.Age = patch.Age
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		user.Status = *patch.Status
	}
	if patch.UserType != nil {
		if !patch.UserType.Valid() {
			return nil, ErrInvalidUserType
		}
		user.UserType = *patch.UserType
	}
	if patch.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Promote sets the user's tier to premium. Promoting an already-premium user
// succeeds and changes nothing beyond updated_at.
func (s *UserService) Promote(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.UserType = models.UserTypePremium

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	return user, nil
}

// Delete removes a user and cascades to every owned task. A delete that
// removes nothing after the existence check indicates a race or storage
// fault and maps to ErrUserDeletionFailed.
func (s *UserService) Delete(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	deleted, err := s.userRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserDeletionFailed
	}

	return nil
}
