package services

import (
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"brownie-campaign-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// baseChance is the per-tier base success percentage for a mint attempt.
// NEON has no entry: it is terminal.
var baseChance = map[models.BadgeTier]int{
	models.BadgeBrown:  40,
	models.BadgeBlue:   30,
	models.BadgeGreen:  20,
	models.BadgeYellow: 10,
	models.BadgeRed:    5,
}

const pointsBonusCap = 30

// MintChance returns the success percentage for an attempt from tier with
// the given points: base(tier) + min(points/10, 30).
func MintChance(tier models.BadgeTier, points int) int {
	bonus := points / 10
	if bonus > pointsBonusCap {
		bonus = pointsBonusCap
	}
	return baseChance[tier] + bonus
}

// MintService is the probabilistic badge-upgrade state machine. Draw is the
// injectable uniform [0,100) source; tests pin it, production keeps the
// default.
type MintService struct {
	DB   *gorm.DB
	Draw func() int
}

func NewMintService(db *gorm.DB) *MintService {
	return &MintService{
		DB:   db,
		Draw: func() int { return rand.IntN(100) },
	}
}

// MintResult reports one attempt. NewBadge is the tier after the attempt,
// unchanged on failure.
type MintResult struct {
	Success  bool               `json:"success"`
	NewBadge models.BadgeTier   `json:"new_badge"`
	Attempt  models.MintAttempt `json:"attempt"`
}

// AttemptUpgrade spends one coupon use on a probability draw for the next
// tier. Every guard (agent, coupon, expiry, exhaustion, terminal tier) runs
// before the draw. The transaction then: CAS-increments the coupon's usage
// (usage_count < max_uses — zero rows means a concurrent attempt spent the
// last use, and this one rolls back whole), appends the audit MintAttempt
// whatever the draw said, and on success CAS-advances the badge and records
// the upgrade. The coupon is consumed per attempt, success or not — that is
// what bounds retries per coupon.
func (s *MintService) AttemptUpgrade(agentID, couponCode string) (*MintResult, error) {
	var participant models.Participant
	if err := s.DB.Where("agent_id = ?", agentID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAgentNotFound
		}
		return nil, err
	}

	var coupon models.Coupon
	if err := s.DB.Where("code = ?", couponCode).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCouponNotFound
		}
		return nil, err
	}

	now := time.Now()
	if !now.Before(coupon.ExpiresAt) {
		return nil, models.ErrCouponExpired
	}
	if coupon.UsageCount >= coupon.MaxUses {
		return nil, models.ErrCouponExhausted
	}

	nextTier, ok := participant.Badge.Successor()
	if !ok {
		return nil, models.ErrMaxTierReached
	}

	chance := MintChance(participant.Badge, participant.Points)
	success := s.Draw() < chance

	attempt := models.MintAttempt{
		ID:            uuid.NewString(),
		ParticipantID: participant.ID,
		CouponID:      coupon.ID,
		FromBadge:     participant.Badge,
		ToBadge:       nextTier,
		Chance:        chance,
		Success:       success,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Coupon{}).
			Where("id = ? AND usage_count < max_uses", coupon.ID).
			Update("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrCouponExhausted
		}

		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if !success {
			return nil
		}

		res = tx.Model(&models.Participant{}).
			Where("id = ? AND badge = ?", participant.ID, participant.Badge).
			Update("badge", nextTier)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrMintRace
		}

		return tx.Create(&models.BadgeUpgrade{
			ID:            uuid.NewString(),
			ParticipantID: participant.ID,
			Badge:         nextTier,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	newBadge := participant.Badge
	if success {
		newBadge = nextTier
	}

	log.Printf("🎲 [MINT] Agent %s: %s → %s at %d%% — success=%t (coupon %s use %d/%d)",
		agentID, participant.Badge, nextTier, chance, success,
		coupon.Code, coupon.UsageCount+1, coupon.MaxUses)

	return &MintResult{Success: success, NewBadge: newBadge, Attempt: attempt}, nil
}
