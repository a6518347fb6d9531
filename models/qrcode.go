package models

import "time"

// QRCode is a one-time campaign entry ticket. Once Used flips to true the
// code is permanently inert; exactly one agent may ever claim a given code.
type QRCode struct {
	ID     string     `gorm:"primaryKey;type:uuid" json:"id"`
	Code   string     `gorm:"uniqueIndex;not null" json:"code"`
	Used   bool       `gorm:"not null;default:false" json:"used"`
	UsedBy *string    `gorm:"index" json:"used_by,omitempty"` // AgentID of the claimant
	UsedAt *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
