// handlers/campaign_routes.go
package handlers

import (
	"errors"
	"time"

	"brownie-campaign-service/middleware"
	"brownie-campaign-service/models"
	"brownie-campaign-service/services"

	"github.com/gofiber/fiber/v2"
)

// CampaignServices bundles everything the campaign routes need.
type CampaignServices struct {
	Identity *services.IdentityService
	Tickets  *services.TicketService
	Clues    *services.ClueService
	Rewards  *services.RewardService
	Mint     *services.MintService
	Stats    *services.StatsService
}

func SetupCampaignRoutes(app *fiber.App, svc CampaignServices) {
	// 🔓 Public routes — no user context, but still behind Gateway auth

	app.Get("/campaign/clue/today", func(c *fiber.Ctx) error {
		clue, err := svc.Clues.Today()
		if err != nil {
			return domainError(c, err)
		}
		// question + date only — the answer hash never leaves the service
		return c.JSON(fiber.Map{
			"id":       clue.ID,
			"question": clue.Question,
			"date":     clue.Date,
		})
	})

	app.Get("/campaign/qrcodes/:code", func(c *fiber.Ctx) error {
		result, err := svc.Tickets.Validate(c.Params("code"))
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(result)
	})

	app.Get("/campaign/agents/validate", func(c *fiber.Ctx) error {
		ok, err := svc.Identity.ValidateCredentials(c.Query("agent_id"), c.Query("email"))
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{"valid": ok})
	})

	app.Get("/campaign/agents/email-exists", func(c *fiber.Ctx) error {
		ok, err := svc.Identity.ValidateEmail(c.Query("email"))
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{"exists": ok})
	})

	app.Get("/campaign/agents/:agentId/stats", func(c *fiber.Ctx) error {
		stats, err := svc.Stats.GetStats(c.Params("agentId"))
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(stats)
	})

	app.Post("/campaign/agents", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			FullName string `json:"full_name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		participant, err := svc.Identity.Register(req.Email, req.FullName)
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(participant)
	})

	app.Post("/campaign/agents/email", func(c *fiber.Ctx) error {
		var req struct {
			AgentID string `json:"agent_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		participant, err := svc.Identity.EnqueueAgentEmail(req.AgentID)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{"agent_id": participant.AgentID})
	})

	app.Post("/campaign/qrcodes/claim", func(c *fiber.Ctx) error {
		var req struct {
			Code    string `json:"code"`
			AgentID string `json:"agent_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		if err := svc.Tickets.Claim(req.Code, req.AgentID); err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{"claimed": true})
	})

	app.Post("/campaign/clue/answer", func(c *fiber.Ctx) error {
		var req struct {
			AgentID string `json:"agent_id"`
			Email   string `json:"email"`
			Answer  string `json:"answer"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		if req.Email != "" {
			ok, err := svc.Identity.ValidateCredentials(req.AgentID, req.Email)
			if err != nil {
				return domainError(c, err)
			}
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "agent id and email do not match"})
			}
		}

		result, err := svc.Rewards.SubmitAnswer(req.AgentID, req.Answer)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(result)
	})

	app.Post("/campaign/badge/mint", func(c *fiber.Ctx) error {
		var req struct {
			AgentID    string `json:"agent_id"`
			CouponCode string `json:"coupon_code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		result, err := svc.Mint.AttemptUpgrade(req.AgentID, req.CouponCode)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(result)
	})

	// 🔐 Admin routes — user context + admin role
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/qrcodes", func(c *fiber.Ctx) error {
		var req struct {
			Count int    `json:"count"`
			Label string `json:"label"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Label == "" {
			req.Label = "batch"
		}

		tickets, artifactURL, err := svc.Tickets.IssueBatch(req.Count, req.Label)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to issue batch", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"tickets":      tickets,
			"artifact_url": artifactURL,
		})
	})

	adminGroup.Post("/clues", func(c *fiber.Ctx) error {
		var req struct {
			Question string    `json:"question"`
			Answer   string    `json:"answer"`
			Date     time.Time `json:"date"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Date.IsZero() {
			req.Date = time.Now()
		}

		clue, err := svc.Clues.Create(req.Question, req.Answer, req.Date)
		if err != nil {
			return domainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       clue.ID,
			"question": clue.Question,
			"date":     clue.Date,
		})
	})
}

// domainError translates service errors into HTTP statuses. Unknown errors
// become a 500 with the cause attached, never swallowed.
func domainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrAgentNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrNoClueToday),
		errors.Is(err, models.ErrCouponNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrTicketUsed),
		errors.Is(err, models.ErrAlreadyAnswered),
		errors.Is(err, models.ErrCouponExpired),
		errors.Is(err, models.ErrCouponExhausted),
		errors.Is(err, models.ErrMaxTierReached),
		errors.Is(err, models.ErrMintRace):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidEmail),
		errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrEmptyAnswer):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
