package model

import (
	"time"

	"gorm.io/gorm"
)

// Project is a crowdfunding campaign.
type Project struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Title           string `json:"title" gorm:"not null" binding:"required"`
	Description     string `json:"description" gorm:"type:text;not null"`
	FullDescription string `json:"full_description" gorm:"type:text"`
	ImageSrc        string `json:"image_src"`
	Category        string `json:"category" gorm:"index"`

	Goal float64 `json:"goal" gorm:"not null" binding:"required,gt=0"`
	// Raised is maintained exclusively by the pledge ledger and always
	// equals the sum of the project's backing amounts.
	Raised float64 `json:"raised" gorm:"default:0"`

	EndDate  time.Time `json:"end_date" gorm:"not null"`
	Featured bool      `json:"featured" gorm:"default:false"`

	Status ProjectStatus `json:"status" gorm:"default:'active'"`

	CreatorID uint `json:"creator_id" gorm:"not null;index"`

	Backers []Backing `json:"backers,omitempty" gorm:"foreignKey:ProjectID"`
	Rewards []Reward  `json:"rewards,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectStatus tracks the campaign lifecycle.
type ProjectStatus string

const (
	ProjectStatusActive     ProjectStatus = "active"
	ProjectStatusSuccessful ProjectStatus = "successful"
	ProjectStatusFailed     ProjectStatus = "failed"
)

// Categories is the fixed set of project tags.
var Categories = []string{
	"art", "design", "film", "games", "music", "publishing", "tech",
	"food", "fashion", "photography",
}

// ValidCategory reports whether c is one of the known project categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
