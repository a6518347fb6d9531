package models

import "time"

// Clue is the daily puzzle. The answer is stored only as a bcrypt digest of
// the normalized plaintext; the digest never leaves the service.
type Clue struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	AnswerHash string    `gorm:"not null" json:"-"`
	Date       time.Time `gorm:"uniqueIndex;not null" json:"date"` // day granularity, local midnight

	Timestamps
}

// ClueAnswer records that an agent has successfully answered a clue. The
// composite unique index makes the insert the double-credit guard: a
// conflict-ignoring insert that affects zero rows means someone got there
// first.
type ClueAnswer struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	ClueID        string `gorm:"uniqueIndex:idx_clue_participant;not null" json:"clue_id"`
	ParticipantID string `gorm:"uniqueIndex:idx_clue_participant;not null" json:"participant_id"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
