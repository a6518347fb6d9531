package services

import (
	"errors"
	"time"

	"brownie-campaign-service/models"

	"gorm.io/gorm"
)

// StatsService is the read-only projection of an agent's full campaign
// history. No mutation happens here.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// AnsweredClue is a clue the agent solved — question and dates only, never
// anything hash-adjacent.
type AnsweredClue struct {
	ClueID     string    `json:"clue_id"`
	Question   string    `json:"question"`
	Date       time.Time `json:"date"`
	AnsweredAt time.Time `json:"answered_at"`
}

// AgentStats is the full projection returned by GetStats.
type AgentStats struct {
	AgentID       string                `json:"agent_id"`
	FullName      string                `json:"full_name"`
	Email         string                `json:"email"`
	Points        int                   `json:"points"`
	Badge         models.BadgeTier      `json:"badge"`
	RegisteredAt  time.Time             `json:"registered_at"`
	Clues         []AnsweredClue        `json:"clues"`
	Coupons       []models.Coupon       `json:"coupons"`
	BadgeUpgrades []models.BadgeUpgrade `json:"badge_upgrades"`
}

// GetStats assembles the projection for one agent.
func (s *StatsService) GetStats(agentID string) (*AgentStats, error) {
	var participant models.Participant
	if err := s.DB.Where("agent_id = ?", agentID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAgentNotFound
		}
		return nil, err
	}

	clues := []AnsweredClue{}
	if err := s.DB.Model(&models.ClueAnswer{}).
		Select("clues.id AS clue_id, clues.question, clues.date, clue_answers.created_at AS answered_at").
		Joins("INNER JOIN clues ON clues.id = clue_answers.clue_id").
		Where("clue_answers.participant_id = ?", participant.ID).
		Order("clue_answers.created_at DESC").
		Scan(&clues).Error; err != nil {
		return nil, err
	}

	coupons := []models.Coupon{}
	if err := s.DB.Where("participant_id = ?", participant.ID).
		Order("created_at DESC").
		Find(&coupons).Error; err != nil {
		return nil, err
	}

	upgrades := []models.BadgeUpgrade{}
	if err := s.DB.Where("participant_id = ?", participant.ID).
		Order("created_at ASC").
		Find(&upgrades).Error; err != nil {
		return nil, err
	}

	return &AgentStats{
		AgentID:       participant.AgentID,
		FullName:      participant.FullName,
		Email:         participant.Email,
		Points:        participant.Points,
		Badge:         participant.Badge,
		RegisteredAt:  participant.CreatedAt,
		Clues:         clues,
		Coupons:       coupons,
		BadgeUpgrades: upgrades,
	}, nil
}
