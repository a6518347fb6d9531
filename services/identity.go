package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"brownie-campaign-service/models"

	"github.com/google/uuid"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// IdentityService owns Participant records: registration, the public Agent
// ID derivation, and credential lookups used by the other campaign flows.
type IdentityService struct {
	DB *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{DB: db}
}

var nameCaser = cases.Title(language.English, cases.NoLower)

// DeriveAgentID builds the shareable agent handle: uppercase initials of
// each name token (ASCII-folded) plus the last 4 characters of the opaque
// ID. "Jane de Souza" + "...-9f2a" → "JDS-9F2A".
func DeriveAgentID(fullName, opaqueID string) string {
	var initials strings.Builder
	for _, tok := range strings.Fields(unidecode.Unidecode(fullName)) {
		initials.WriteRune(unicode.ToUpper([]rune(tok)[0]))
	}

	suffix := opaqueID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("%s-%s", initials.String(), strings.ToUpper(suffix))
}

// Register creates a Participant at BROWN/0 and queues the welcome email
// carrying the Agent ID. The outbox row is written in the same transaction,
// but actual delivery is the worker's problem — a dead SMTP server never
// unwinds a registration. The unique index on email is the race-safe
// backstop behind the duplicate pre-check.
func (s *IdentityService) Register(email, fullName string) (*models.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.ErrInvalidEmail
	}
	if fullName == "" {
		return nil, models.ErrEmptyName
	}

	id := uuid.NewString()
	participant := &models.Participant{
		ID:       id,
		AgentID:  DeriveAgentID(fullName, id),
		Email:    email,
		FullName: nameCaser.String(fullName),
		Points:   0,
		Badge:    models.BadgeBrown,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Participant{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrDuplicateEmail
		}

		if err := tx.Create(participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrDuplicateEmail
			}
			return err
		}

		return tx.Create(agentWelcomeMail(participant)).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🆕 [IDENTITY] Registered agent %s (%s)", participant.AgentID, participant.Email)
	return participant, nil
}

// EnqueueAgentEmail re-queues the Agent ID email for an existing agent.
func (s *IdentityService) EnqueueAgentEmail(agentID string) (*models.Participant, error) {
	var p models.Participant
	if err := s.DB.Where("agent_id = ?", agentID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAgentNotFound
		}
		return nil, err
	}

	if err := s.DB.Create(agentWelcomeMail(&p)).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateCredentials reports whether agentID and email belong to the same
// participant.
func (s *IdentityService) ValidateCredentials(agentID, email string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Participant{}).
		Where("agent_id = ? AND email = ?", agentID, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// ValidateEmail reports whether the email is already bound to a participant.
func (s *IdentityService) ValidateEmail(email string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Participant{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func agentWelcomeMail(p *models.Participant) *models.EmailOutbox {
	body := fmt.Sprintf(`<h2>Welcome to Brownie City, %s!</h2>
<p>Your agent ID is <strong>%s</strong>. Keep it safe — you'll need it for
every daily clue and badge mint.</p>
<p>A new clue drops every day. Good luck, agent.</p>`, p.FullName, p.AgentID)

	return &models.EmailOutbox{
		ID:        uuid.NewString(),
		ToAddress: p.Email,
		Subject:   fmt.Sprintf("Your Brownie City agent ID: %s", p.AgentID),
		Body:      body,
	}
}
