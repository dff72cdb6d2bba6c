package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/config"
	"recruitdesk/cv-intake/internal/handlers"
	"recruitdesk/cv-intake/internal/ingestion"
	"recruitdesk/cv-intake/internal/logger"
	"recruitdesk/cv-intake/internal/middleware"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/services"
	"recruitdesk/cv-intake/internal/validator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if !cfg.DotEnvLoaded {
		log.Info("no .env file found, using environment")
	}
	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	repo := repositories.NewCVUploadRepository(db)
	log.Info("✅ Repositories initialized successfully")

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatal("❌ Failed to initialize storage", zap.Error(err))
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		log.Fatal("❌ Failed to prepare storage", zap.Error(err))
	}

	pdfParser := services.NewPDFParserService()
	log.Info("✅ Services initialized successfully", zap.String("storage", cfg.Storage.Driver))

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.Worker.RetryInitialDelay, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	log.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.Model))

	var index services.CandidateIndex
	if cfg.Qdrant.URL != "" {
		index, err = services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
		if err != nil {
			log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}
		if err := index.InitCollection(ctx); err != nil {
			log.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
		}
		log.Info("✅ Qdrant initialized successfully", zap.String("collection", cfg.Qdrant.Collection))
	} else {
		log.Info("Qdrant disabled, candidate search is unavailable")
	}

	processor := services.NewProcessorService(repo, storageService, pdfParser, geminiService, index, log)

	worker := services.NewWorker(repo, processor, cfg.Worker, log)
	worker.Start(ctx)
	log.Info("✅ Worker started successfully", zap.Int("concurrency", cfg.Worker.Concurrency))

	intake := services.NewIntakeService(repo, storageService, worker, cfg.Storage.MaxFileSize, log)
	candidates := services.NewCandidateService(repo, geminiService, index, log)

	gmailImporter, driveImporter := newImporters(ctx, cfg, intake, log)

	v := validator.New()
	h := handlers.Handlers{
		Upload:     handlers.NewUploadHandler(intake, candidates, log),
		Candidates: handlers.NewCandidateHandler(candidates, v),
		Screening:  handlers.NewScreeningHandler(candidates, v),
		Import:     handlers.NewImportHandler(gmailImporter, driveImporter, log),
	}
	log.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "CV Intake API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 10,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		app.Static("/files", cfg.Storage.UploadPath)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty, API requests are not authenticated")
	}
	handlers.Register(app, h, middleware.AuthorizationRequired(cfg.Auth.JWTSecret))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Intake API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"GET /api/v1/uploads/:id",
				"GET /api/v1/candidates-by-range",
				"GET /api/v1/candidates-by-date",
				"GET /api/v1/candidates/search",
				"GET /api/v1/candidates/export",
				"GET /api/v1/verticals",
				"GET /api/v1/presets",
				"GET /api/v1/rules",
				"POST /api/v1/screen",
				"POST /api/v1/import/gmail",
				"POST /api/v1/import/drive",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// newImporters builds the Google importers. An importer that cannot be
// configured is left nil and its route answers 503.
func newImporters(ctx context.Context, cfg *config.Config, intake services.IntakeService, log *zap.Logger) (gmail, drive handlers.Importer) {
	if g, err := ingestion.NewGmailImporter(ctx, cfg.Google, intake, log); err != nil {
		log.Warn("Gmail import disabled", zap.Error(err))
	} else {
		gmail = g
	}

	if d, err := ingestion.NewDriveImporter(ctx, cfg.Google, intake, log); err != nil {
		log.Warn("Drive import disabled", zap.Error(err))
	} else {
		drive = d
	}

	return gmail, drive
}
