package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brownie-campaign-service/handlers"
	"brownie-campaign-service/middleware"
	"brownie-campaign-service/models"
	"brownie-campaign-service/services"
	"brownie-campaign-service/utils"
	"brownie-campaign-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // campaign payloads are tiny JSON
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Participant{},
		&models.QRCode{},
		&models.Clue{},
		&models.ClueAnswer{},
		&models.Coupon{},
		&models.MintAttempt{},
		&models.BadgeUpgrade{},
		&models.EmailOutbox{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	identityService := services.NewIdentityService(db)
	ticketService := services.NewTicketService(db)
	clueService := services.NewClueService(db)
	rewardService := services.NewRewardService(db, clueService)
	mintService := services.NewMintService(db)
	statsService := services.NewStatsService(db)

	mailer, err := utils.NewMailerFromEnv()
	if err != nil {
		log.Fatal("failed to configure mailer:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outboxWorker := workers.NewEmailOutboxWorker(db, mailer)
	go outboxWorker.PollOutbox(ctx, 15*time.Second)

	clueService.StartCoverageScheduler()

	handlers.SetupCampaignRoutes(app, handlers.CampaignServices{
		Identity: identityService,
		Tickets:  ticketService,
		Clues:    clueService,
		Rewards:  rewardService,
		Mint:     mintService,
		Stats:    statsService,
	})

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Brownie City campaign service running on http://localhost:5300")
	log.Println("✅ Email outbox worker running (every 15s)")
	log.Println("✅ Clue coverage check running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
