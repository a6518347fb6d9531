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
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TicketService is the one-time QR ticket registry: batch issuance, scan
// validation and the single-winner claim.
type TicketService struct {
	DB *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{DB: db}
}

// TicketValidation is the scan-check result shown to the door staff.
type TicketValidation struct {
	Valid  bool   `json:"is_valid"`
	Reason string `json:"reason,omitempty"`
}

// Validate checks a code without consuming it.
func (s *TicketService) Validate(code string) (TicketValidation, error) {
	var ticket models.QRCode
	err := s.DB.Where("code = ?", strings.TrimSpace(code)).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TicketValidation{Valid: false, Reason: "not found"}, nil
	}
	if err != nil {
		return TicketValidation{}, err
	}
	if ticket.Used {
		return TicketValidation{Valid: false, Reason: "already used"}, nil
	}
	return TicketValidation{Valid: true}, nil
}

// Claim binds a code to an agent. The conditional UPDATE is the whole
// anti-replay story: of any number of concurrent claims on one code,
// exactly one flips used=false → true; everyone else re-reads to learn
// whether the code was unknown or already spent.
func (s *TicketService) Claim(code, agentID string) error {
	code = strings.TrimSpace(code)
	now := time.Now()

	res := s.DB.Model(&models.QRCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": agentID,
			"used_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var ticket models.QRCode
		err := s.DB.Where("code = ?", code).First(&ticket).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrTicketNotFound
		}
		if err != nil {
			return err
		}
		return models.ErrTicketUsed
	}

	log.Printf("🎟️  [TICKET] Code %s claimed by %s", code, agentID)
	return nil
}

// IssueBatch mints count fresh ticket codes and renders the printable QR
// archive to R2. Codes are committed first; a rendering or upload failure
// only costs the artifact (it can be rebuilt from the rows), never the
// codes themselves.
func (s *TicketService) IssueBatch(count int, label string) ([]models.QRCode, string, error) {
	if count < 1 || count > 5000 {
		return nil, "", fmt.Errorf("batch size must be between 1 and 5000, got %d", count)
	}

	tickets := make([]models.QRCode, count)
	codes := make([]string, count)
	for i := range tickets {
		code := newTicketCode()
		tickets[i] = models.QRCode{ID: uuid.NewString(), Code: code}
		codes[i] = code
	}

	if err := s.DB.CreateInBatches(tickets, 200).Error; err != nil {
		return nil, "", err
	}
	log.Printf("🎫 [TICKET] Issued %d codes (batch %q)", count, label)

	archive, err := utils.BuildTicketArchive(codes)
	if err != nil {
		log.Printf("⚠️  [TICKET] Failed to render QR archive: %v", err)
		return tickets, "", nil
	}

	key := fmt.Sprintf("tickets/%s-%d.zip", slug.Make(label), time.Now().Unix())
	url, err := utils.UploadBytesToR2(key, "application/zip", archive)
	if err != nil {
		log.Printf("⚠️  [TICKET] Failed to upload QR archive: %v", err)
		return tickets, "", nil
	}

	return tickets, url, nil
}

// newTicketCode returns a short scannable code, e.g. "BC-93AF01D2E4".
func newTicketCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BC-" + raw[:10]
}
