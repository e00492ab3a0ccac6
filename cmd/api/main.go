package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/echovault/echovault/pkg/validator"

	"github.com/echovault/echovault/internal/adapter/handler"
	"github.com/echovault/echovault/internal/adapter/repository"
	"github.com/echovault/echovault/internal/infrastructure/cache"
	"github.com/echovault/echovault/internal/infrastructure/database"
	httpmw "github.com/echovault/echovault/internal/infrastructure/http/middleware"
	"github.com/echovault/echovault/internal/infrastructure/storage"
	"github.com/echovault/echovault/internal/usecase/analysis"
	"github.com/echovault/echovault/internal/usecase/graph"
	"github.com/echovault/echovault/internal/usecase/library"
	"github.com/echovault/echovault/internal/usecase/pipeline"
	"github.com/echovault/echovault/internal/usecase/transcription"
	"github.com/echovault/echovault/pkg/config"
	"github.com/echovault/echovault/pkg/gemini"
	"github.com/echovault/echovault/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Request-ID"},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database with startup backoff; nothing past this point retries
	log.Println("📦 Connecting to database...")
	db, err := database.ConnectWithBackoff(cfg, 2*time.Minute)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	log.Println("🪣 Initializing object storage...")
	storageClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	recordingRepo := repository.NewRecordingRepository(db)
	folderRepo := repository.NewFolderRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	kgRepo := repository.NewKnowledgeGraphRepository(db)

	// Initialize AI services
	log.Println("🤖 Initializing AI services...")
	geminiClient := gemini.NewClient(&cfg.Gemini)
	if !geminiClient.IsConfigured() {
		log.Println("⚠️  GEMINI_API_KEY not set; transcription and analysis will fail until configured")
	}
	transcriptionSvc := transcription.NewService(geminiClient, cfg.Pipeline.MaxEncodedAudioChars, logger)
	analysisSvc := analysis.NewService(geminiClient, logger)

	// Initialize refresh bus and pipeline
	log.Println("🔁 Initializing pipeline...")
	refreshBus := cache.NewRefreshBus(redisClient, logger)
	pipelineSvc := pipeline.NewService(
		storageClient,
		transcriptionSvc,
		analysisSvc,
		recordingRepo,
		refreshBus,
		cfg.Pipeline.MaxEncodedAudioChars,
		logger,
	)

	// Initialize view services
	log.Println("📚 Initializing views...")
	shareStore := cache.NewShareStore()
	librarySvc := library.NewService(recordingRepo, storageClient, shareStore, 24*time.Hour, logger)
	graphSvc := graph.NewService(recordingRepo)

	// Initialize JWT manager and auth middleware
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authEchoMW := httpmw.EchoAuth(jwtManager)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	aiHandler := handler.NewAI(transcriptionSvc, analysisSvc, logger)
	recHandler := handler.NewRecording(pipelineSvc, librarySvc, logger)
	graphHandler := handler.NewGraph(graphSvc, logger)
	folderHandler := handler.NewFolder(folderRepo, recordingRepo, logger)
	profileHandler := handler.NewProfile(profileRepo, storageClient, logger)
	kgHandler := handler.NewKnowledgeGraph(kgRepo, logger)
	eventsHandler := handler.NewEvents(refreshBus, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, aiHandler, recHandler, graphHandler, folderHandler, profileHandler, kgHandler, eventsHandler, authEchoMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
