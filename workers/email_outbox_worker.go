package workers

import (
	"context"
	"log"
	"time"

	"brownie-campaign-service/models"
	"brownie-campaign-service/utils"

	"gorm.io/gorm"
)

const outboxMaxAttempts = 5

// EmailOutboxWorker drains the email outbox on a ticker. Business
// transactions only ever write outbox rows; this worker is the only thing
// that talks SMTP, so a slow or dead mail server never blocks a request.
type EmailOutboxWorker struct {
	DB     *gorm.DB
	Mailer *utils.Mailer
}

func NewEmailOutboxWorker(db *gorm.DB, mailer *utils.Mailer) *EmailOutboxWorker {
	return &EmailOutboxWorker{DB: db, Mailer: mailer}
}

// PollOutbox drains pending mail every interval until ctx is cancelled.
func (w *EmailOutboxWorker) PollOutbox(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("📪 [OUTBOX] Worker stopped")
			return
		case <-ticker.C:
			w.drain()
		}
	}
}

func (w *EmailOutboxWorker) drain() {
	var pending []models.EmailOutbox
	err := w.DB.Where("sent_at IS NULL AND attempts < ?", outboxMaxAttempts).
		Order("created_at ASC").
		Limit(20).
		Find(&pending).Error
	if err != nil {
		log.Printf("[OUTBOX] DB error: %v", err)
		return
	}

	for _, mail := range pending {
		sendErr := w.Mailer.Send(mail.ToAddress, mail.Subject, mail.Body)

		updates := map[string]interface{}{
			"attempts": gorm.Expr("attempts + 1"),
		}
		if sendErr != nil {
			updates["last_error"] = sendErr.Error()
			log.Printf("⚠️  [OUTBOX] Send to %s failed (attempt %d): %v",
				mail.ToAddress, mail.Attempts+1, sendErr)
		} else {
			now := time.Now()
			updates["sent_at"] = now
			updates["last_error"] = ""
		}

		if err := w.DB.Model(&models.EmailOutbox{}).
			Where("id = ?", mail.ID).
			Updates(updates).Error; err != nil {
			log.Printf("[OUTBOX] Failed to update row %s: %v", mail.ID, err)
		}
	}
}
