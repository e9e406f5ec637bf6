package dto

import (
	"time"

	"github.com/mfernan/user-tasks-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// part of any response shape.
type UserDTO struct {
	ID        uint64            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Age       *int              `json:"age"`
	Status    models.UserStatus `json:"status"`
	UserType  models.UserType   `json:"user_type"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UserWithTasksDTO represents a user with the nested list of owned tasks.
type UserWithTasksDTO struct {
	UserDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		Status:    user.Status,
		UserType:  user.UserType,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserWithTasksDTO converts a User model with preloaded tasks
func ToUserWithTasksDTO(user models.User) UserWithTasksDTO {
	return UserWithTasksDTO{
		UserDTO: ToUserDTO(user),
		Tasks:   ToTaskDTOs(user.Tasks),
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
