package workers

import (
	"testing"

	"brownie-campaign-service/models"
	"brownie-campaign-service/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.EmailOutbox{}))
	return db
}

func TestDrainMarksRowsSent(t *testing.T) {
	db := newOutboxDB(t)

	row := &models.EmailOutbox{
		ID:        uuid.NewString(),
		ToAddress: "agent@example.com",
		Subject:   "Your Brownie City agent ID: JD-9F2A",
		Body:      "<p>hi</p>",
	}
	require.NoError(t, db.Create(row).Error)

	// disabled mailer drops the mail but still counts as delivered
	worker := NewEmailOutboxWorker(db, &utils.Mailer{})
	worker.drain()

	var stored models.EmailOutbox
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	assert.NotNil(t, stored.SentAt)
	assert.Equal(t, 1, stored.Attempts)
	assert.Empty(t, stored.LastError)
}

func TestDrainSkipsSentAndExhaustedRows(t *testing.T) {
	db := newOutboxDB(t)

	exhausted := &models.EmailOutbox{
		ID:        uuid.NewString(),
		ToAddress: "dead@example.com",
		Subject:   "s",
		Body:      "b",
		Attempts:  outboxMaxAttempts,
		LastError: "connection refused",
	}
	require.NoError(t, db.Create(exhausted).Error)

	worker := NewEmailOutboxWorker(db, &utils.Mailer{})
	worker.drain()

	var stored models.EmailOutbox
	require.NoError(t, db.First(&stored, "id = ?", exhausted.ID).Error)
	assert.Nil(t, stored.SentAt)
	assert.Equal(t, outboxMaxAttempts, stored.Attempts, "exhausted rows are left alone")
}
