package services

import (
	"errors"
	"log"
	"time"

	"brownie-campaign-service/models"
	"brownie-campaign-service/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClueService resolves the single active clue per calendar day and tracks
// which agents have answered it.
type ClueService struct {
	DB *gorm.DB
}

func NewClueService(db *gorm.DB) *ClueService {
	return &ClueService{DB: db}
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today resolves the clue whose date falls in [startOfToday, startOfTomorrow)
// in server-local time. The unique index on date keeps new duplicates out;
// should legacy duplicates exist anyway, the earliest-created row wins so
// every caller sees the same clue.
func (s *ClueService) Today() (*models.Clue, error) {
	from := startOfDay(time.Now())
	to := from.AddDate(0, 0, 1)

	var clue models.Clue
	err := s.DB.Where("date >= ? AND date < ?", from, to).
		Order("created_at ASC").
		First(&clue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNoClueToday
	}
	if err != nil {
		return nil, err
	}
	return &clue, nil
}

// Create stores a new daily clue. Only the bcrypt digest of the normalized
// answer is persisted — the creation-time normalization must mirror the
// verification path exactly or no submission will ever match.
func (s *ClueService) Create(question, answer string, date time.Time) (*models.Clue, error) {
	if question == "" || answer == "" {
		return nil, models.ErrEmptyAnswer
	}

	digest, err := utils.HashAnswer(answer)
	if err != nil {
		return nil, err
	}

	clue := &models.Clue{
		ID:         uuid.NewString(),
		Question:   question,
		AnswerHash: digest,
		Date:       startOfDay(date),
	}
	if err := s.DB.Create(clue).Error; err != nil {
		return nil, err
	}
	return clue, nil
}

// HasAnswered is the membership test against the clue's answered-by set.
func (s *ClueService) HasAnswered(clueID, participantID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ClueAnswer{}).
		Where("clue_id = ? AND participant_id = ?", clueID, participantID).
		Count(&count).Error
	return count > 0, err
}

// MarkAnswered adds the agent to the clue's answered-by set. Idempotent by
// the composite unique index; the returned bool is false when the row
// already existed, which the reward ledger uses as its double-credit guard.
// Runs on the caller's handle so it can join an enclosing transaction.
func (s *ClueService) MarkAnswered(db *gorm.DB, clueID, participantID string) (bool, error) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ClueAnswer{
		ID:            uuid.NewString(),
		ClueID:        clueID,
		ParticipantID: participantID,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// StartCoverageScheduler warns hourly when no clue is scheduled for today,
// so an empty day is noticed before agents do.
func (s *ClueService) StartCoverageScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if _, err := s.Today(); errors.Is(err, models.ErrNoClueToday) {
				log.Println("⚠️  [CLUE] No clue scheduled for today — agents will see an empty board")
			}
		}),
	)
}
