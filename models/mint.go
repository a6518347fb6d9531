package models

import "time"

// MintAttempt is the append-only audit trail of the probabilistic badge
// mint. One row per attempt, successful or not; never mutated or deleted.
type MintAttempt struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	ParticipantID string    `gorm:"index;not null" json:"participant_id"`
	CouponID      string    `gorm:"index;not null" json:"coupon_id"`
	FromBadge     BadgeTier `gorm:"type:varchar(16);not null" json:"from_badge"`
	ToBadge       BadgeTier `gorm:"type:varchar(16);not null" json:"to_badge"`
	Chance        int       `gorm:"not null" json:"chance"` // percentage at attempt time
	Success       bool      `gorm:"not null" json:"success"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BadgeUpgrade is the success-only upgrade history shown to agents.
type BadgeUpgrade struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	ParticipantID string    `gorm:"index;not null" json:"participant_id"`
	Badge         BadgeTier `gorm:"type:varchar(16);not null" json:"badge"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
