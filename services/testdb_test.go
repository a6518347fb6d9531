package services

import (
	"testing"
	"time"

	"brownie-campaign-service/models"
	"brownie-campaign-service/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB spins up an in-memory SQLite database with the full schema.
// Single connection so the in-memory database survives the pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Participant{},
		&models.QRCode{},
		&models.Clue{},
		&models.ClueAnswer{},
		&models.Coupon{},
		&models.MintAttempt{},
		&models.BadgeUpgrade{},
		&models.EmailOutbox{},
	))
	return db
}

func seedAgent(t *testing.T, db *gorm.DB, points int, badge models.BadgeTier) *models.Participant {
	t.Helper()

	id := uuid.NewString()
	p := &models.Participant{
		ID:       id,
		AgentID:  DeriveAgentID("Test Agent", id),
		Email:    uuid.NewString() + "@example.com",
		FullName: "Test Agent",
		Points:   points,
		Badge:    badge,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedClueToday(t *testing.T, db *gorm.DB, question, answer string) *models.Clue {
	t.Helper()

	digest, err := utils.HashAnswer(answer)
	require.NoError(t, err)

	clue := &models.Clue{
		ID:         uuid.NewString(),
		Question:   question,
		AnswerHash: digest,
		Date:       startOfDay(time.Now()),
	}
	require.NoError(t, db.Create(clue).Error)
	return clue
}

func seedCoupon(t *testing.T, db *gorm.DB, p *models.Participant, usageCount int, expiresAt time.Time) *models.Coupon {
	t.Helper()

	coupon := &models.Coupon{
		ID:            uuid.NewString(),
		Code:          CouponCode(p.AgentID, uuid.NewString()),
		Discount:      CouponDiscount,
		ExpiresAt:     expiresAt,
		UsageCount:    usageCount,
		MaxUses:       CouponMaxUses,
		ParticipantID: p.ID,
		ClueID:        uuid.NewString(),
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}
