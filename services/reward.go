package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"brownie-campaign-service/models"
	"brownie-campaign-service/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward constants. A correct answer is worth PointsPerClue — stored and
// reported identically — plus one coupon per (agent, clue) pair.
const (
	PointsPerClue  = 10
	CouponDiscount = 5
	CouponMaxUses  = 2
	CouponTTL      = 48 * time.Hour
)

// RewardService is the ledger behind answer submission: it verifies the
// day's answer and, on success, credits points and mints the coupon in one
// atomic unit.
type RewardService struct {
	DB    *gorm.DB
	Clues *ClueService
}

func NewRewardService(db *gorm.DB, clues *ClueService) *RewardService {
	return &RewardService{DB: db, Clues: clues}
}

// SubmitResult is the answer-submission outcome. Coupon is nil on a wrong
// answer.
type SubmitResult struct {
	Correct       bool           `json:"correct"`
	PointsAwarded int            `json:"points"`
	Coupon        *models.Coupon `json:"coupon,omitempty"`
}

// SubmitAnswer checks answerText against today's clue for the given agent.
// A wrong answer mutates nothing and may be retried (bcrypt's work factor
// is the throttle). A correct answer applies three writes as one
// transaction: the answered-by marker, the points credit and the coupon.
// The marker insert goes first — if it affects zero rows a concurrent
// submission already won, and nothing else happens. Partial application
// here would be a coupon-farming hole, not a degradation.
func (s *RewardService) SubmitAnswer(agentID, answerText string) (*SubmitResult, error) {
	if strings.TrimSpace(answerText) == "" {
		return nil, models.ErrEmptyAnswer
	}

	clue, err := s.Clues.Today()
	if err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := s.DB.Where("agent_id = ?", agentID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAgentNotFound
		}
		return nil, err
	}

	answered, err := s.Clues.HasAnswered(clue.ID, participant.ID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, models.ErrAlreadyAnswered
	}

	if !utils.VerifyAnswer(answerText, clue.AnswerHash) {
		return &SubmitResult{Correct: false, PointsAwarded: 0}, nil
	}

	coupon := &models.Coupon{
		ID:            uuid.NewString(),
		Code:          CouponCode(participant.AgentID, clue.ID),
		Discount:      CouponDiscount,
		ExpiresAt:     time.Now().Add(CouponTTL),
		UsageCount:    0,
		MaxUses:       CouponMaxUses,
		ParticipantID: participant.ID,
		ClueID:        clue.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		marked, err := s.Clues.MarkAnswered(tx, clue.ID, participant.ID)
		if err != nil {
			return err
		}
		if !marked {
			return models.ErrAlreadyAnswered
		}

		if err := tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("points", gorm.Expr("points + ?", PointsPerClue)).Error; err != nil {
			return err
		}

		return tx.Create(coupon).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏅 [REWARD] Agent %s solved clue %s: +%d points, coupon %s",
		agentID, clue.ID, PointsPerClue, coupon.Code)

	return &SubmitResult{
		Correct:       true,
		PointsAwarded: PointsPerClue,
		Coupon:        coupon,
	}, nil
}

// CouponCode derives the coupon code from the (agent, clue) pair, which is
// what makes "one coupon per agent per clue" hold: re-minting would collide
// on the unique code index.
func CouponCode(agentID, clueID string) string {
	short := strings.ToUpper(strings.ReplaceAll(clueID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s", agentID, short)
}
