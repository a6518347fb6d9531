package models

import (
	"time"
)

// Participant is a registered Brownie City agent. Owned by the identity
// service; points are bumped by the reward ledger and the badge by the mint
// engine. Rows are never deleted.
type Participant struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	AgentID  string    `gorm:"uniqueIndex;not null" json:"agent_id"` // e.g. "JD-4F2A"
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"not null" json:"full_name"`
	Points   int       `gorm:"not null;default:0" json:"points"` // monotonically non-decreasing
	Badge    BadgeTier `gorm:"type:varchar(16);not null;default:'BROWN'" json:"badge"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
