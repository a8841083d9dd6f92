package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rugfork-backend/handlers"
	"rugfork-backend/ledger"
	"rugfork-backend/middleware"
	"rugfork-backend/models"
	"rugfork-backend/services"
	"rugfork-backend/utils"
	"rugfork-backend/workers"

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
		BodyLimit: 10 * 1024 * 1024, // 10MB — covers token logo uploads
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
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
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Pool{},
		&models.Bet{},
		&models.UserProfile{},
		&models.RugRoyale{},
		&models.TournamentParticipant{},
		&models.Winner{},
		&models.RugPass{},
		&models.SystemConfig{},
		&models.Analytics{},
		&models.LedgerAccount{},
		&models.TokenSupply{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	serviceToken := os.Getenv("RUGFORK_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("RUGFORK_SERVICE_TOKEN environment variable not set")
	}

	clock := ledger.SystemClock{}
	events := ledger.NewEventLog(clock)
	book := ledger.NewGormLedger()

	poolService := services.NewPoolService(db, book, clock, events)
	wagerService := services.NewWagerService(db, book, clock, events)
	tournamentService := services.NewTournamentService(db, book, clock, events)
	progressionService := services.NewProgressionService(db, clock, events)
	rugScoreService := services.NewRugScoreService(db, clock)
	analyticsService := services.NewAnalyticsService(db, clock)
	systemService := services.NewSystemService(db, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Crash feed: the only source of crash points ---
	crashFeedURL := os.Getenv("CRASH_FEED_URL")
	if crashFeedURL == "" {
		log.Fatal("CRASH_FEED_URL environment variable not set")
	}
	crashWorker := workers.NewCrashFeedWorker(poolService, wagerService, crashFeedURL, serviceToken)
	go func() {
		log.Println("Starting Crash Feed Worker...")
		crashWorker.Start(ctx)
	}()

	// --- Profile sync: usernames come from the platform profile service ---
	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}
	profileWorker := workers.NewProfileSyncWorker(db, profileServiceURL, serviceToken)
	go func() {
		log.Println("Starting Profile Sync Worker...")
		profileWorker.Start(ctx)
	}()

	services.StartScheduler(rugScoreService, analyticsService, tournamentService)

	// ✅ Setup routes — Gateway auth enforced globally
	handlers.SetupPoolRoutes(app, poolService, rugScoreService, analyticsService)
	handlers.SetupWagerRoutes(app, wagerService)
	handlers.SetupTournamentRoutes(app, tournamentService)
	handlers.SetupProgressionRoutes(app, progressionService)
	handlers.SetupSystemRoutes(app, systemService)
	handlers.SetupEventRoutes(app, events, serviceToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Crash Feed Worker running (every 10s)")
	log.Println("✅ Profile Sync Worker running (every 5m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
