package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/config"
	"recruitdesk/cv-intake/internal/logger"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/services"
)

// Re-embeds every completed CV into the candidate index, e.g. after the
// collection was dropped or the embedding model changed.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("🚀 Starting candidate reindex...")

	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL is not set, nothing to index into")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}
	repo := repositories.NewCVUploadRepository(db)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatal("❌ Failed to initialize storage", zap.Error(err))
	}

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.Worker.RetryInitialDelay, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini", zap.Error(err))
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
	}
	if err := index.InitCollection(ctx); err != nil {
		log.Fatal("❌ Failed to initialize collection", zap.Error(err))
	}

	processor := services.NewProcessorService(
		repo,
		storageService,
		services.NewPDFParserService(),
		geminiService,
		index,
		log,
	)

	successCount := 0
	failCount := 0

	page := repositories.Page{Limit: repositories.MaxLimit}
	for {
		uploads, err := repo.FindCompleted(ctx, page)
		if err != nil {
			log.Fatal("❌ Failed to list completed uploads", zap.Error(err))
		}
		if len(uploads) == 0 {
			break
		}

		for i := range uploads {
			upload := &uploads[i]
			if err := processor.IndexUpload(ctx, upload); err != nil {
				log.Warn("❌ Failed to index upload",
					zap.Stringer("upload_id", upload.ID),
					zap.String("file", upload.OriginalFilename),
					zap.Error(err))
				failCount++
				continue
			}
			successCount++
		}

		log.Info("📊 Progress", zap.Int("indexed", successCount), zap.Int("failed", failCount))
		page.Offset += len(uploads)
	}

	log.Info(strings.Repeat("=", 60))
	log.Info("📊 Reindex Summary", zap.Int("successful", successCount), zap.Int("failed", failCount))
	log.Info(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Warn("⚠️ Some uploads failed to index. Please check the logs above.")
		os.Exit(1)
	}
}
