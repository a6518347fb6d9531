package models

import "time"

// EmailOutbox decouples notification sends from the business transaction
// that produced them. Rows are written inside the registration transaction
// and drained by the outbox worker; a failed send never rolls back the
// state that triggered it.
type EmailOutbox struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ToAddress string `gorm:"not null" json:"to_address"`
	Subject   string `gorm:"not null" json:"subject"`
	Body      string `gorm:"type:text;not null" json:"body"` // HTML

	SentAt    *time.Time `gorm:"index" json:"sent_at,omitempty"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
