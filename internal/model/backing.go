package model

import "time"

// Backing is a single applied pledge, embedded in a project's backer
// list. Rows are append-only; insertion order is chronological.
type Backing struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID uint    `json:"project_id" gorm:"not null;index"`
	UserID    uint    `json:"user_id" gorm:"not null;index"`
	Amount    float64 `json:"amount" gorm:"not null"`
}

// Reward is an informational pledge tier. Tiers are not enforced by the
// ledger unless reward-minimum enforcement is switched on.
type Reward struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID   uint     `json:"project_id" gorm:"not null;index"`
	Title       string   `json:"title"`
	Description string   `json:"description" gorm:"type:text"`
	Amount      float64  `json:"amount"`
	Items       []string `json:"items" gorm:"serializer:json"`
}

// PledgeReceipt records a committed pledge attempt keyed by the caller's
// idempotency key. A retry carrying the same key is answered from the
// receipt instead of being applied twice.
type PledgeReceipt struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	IdempotencyKey string  `json:"idempotency_key" gorm:"uniqueIndex;not null"`
	ProjectID      uint    `json:"project_id" gorm:"not null;index"`
	UserID         uint    `json:"user_id" gorm:"not null"`
	Amount         float64 `json:"amount" gorm:"not null"`
}
