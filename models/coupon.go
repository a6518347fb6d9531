package models

import "time"

// Coupon is the limited-use reward minted for a correct answer. Its code is
// derived from (agent, clue) so at most one coupon can ever exist per pair.
// UsageCount <= MaxUses is enforced by a conditional increment, never by
// read-then-write.
type Coupon struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null" json:"code"`
	Discount      int       `gorm:"not null" json:"discount"`
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
	UsageCount    int       `gorm:"not null;default:0" json:"usage_count"`
	MaxUses       int       `gorm:"not null;default:2" json:"max_uses"`
	ParticipantID string    `gorm:"uniqueIndex:idx_coupon_agent_clue;not null" json:"participant_id"`
	ClueID        string    `gorm:"uniqueIndex:idx_coupon_agent_clue;not null" json:"clue_id"`

	Timestamps
}

// Usable reports whether the mint engine may spend this coupon at t.
func (c *Coupon) Usable(t time.Time) bool {
	return t.Before(c.ExpiresAt) && c.UsageCount < c.MaxUses
}
