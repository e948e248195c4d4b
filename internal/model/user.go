package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can create and back projects.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	FullName     string `json:"full_name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`

	Bio      string `json:"bio" gorm:"type:text"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Avatar   string `json:"avatar"`
}

// BackedProject is the backer-side record of a pledge, kept on the
// user's own list. It survives deletion of the project it references.
type BackedProject struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID    uint    `json:"user_id" gorm:"not null;index"`
	ProjectID uint    `json:"project_id" gorm:"not null;index"`
	Amount    float64 `json:"amount" gorm:"not null"`
}
