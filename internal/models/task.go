package models

import (
	"time"
)

// Task priority bounds, inclusive.
const (
	MinTaskPriority = 1
	MaxTaskPriority = 5
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    int        `gorm:"not null;default:1" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ValidPriority reports whether p is within the allowed priority range.
func ValidPriority(p int) bool {
	return p >= MinTaskPriority && p <= MaxTaskPriority
}
