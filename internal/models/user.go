package models

import (
	"time"
)

// UserStatus is the activity axis of a user. Stored as a varchar; no
// transition restrictions apply.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Valid reports whether the value is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// UserType is the tier axis of a user, independent from UserStatus.
type UserType string

const (
	UserTypeRegular UserType = "regular"
	UserTypePremium UserType = "premium"
)

// Valid reports whether the value is a known tier.
func (t UserType) Valid() bool {
	return t == UserTypeRegular || t == UserTypePremium
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Age          *int       `json:"age"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	UserType     UserType   `gorm:"type:varchar(20);not null;default:'regular'" json:"user_type"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
}
