package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/ingestion"
	"recruitdesk/cv-intake/internal/middleware"
	"recruitdesk/cv-intake/internal/models"
)

// Importer pulls CVs from an external source into the intake pipeline.
type Importer interface {
	Import(ctx context.Context, userID string) (ingestion.ImportSummary, error)
}

type ImportHandler struct {
	gmail Importer
	drive Importer
	log   *zap.Logger
}

// NewImportHandler accepts nil importers; their routes then answer 503.
func NewImportHandler(gmail, drive Importer, log *zap.Logger) *ImportHandler {
	return &ImportHandler{
		gmail: gmail,
		drive: drive,
		log:   log.Named("import"),
	}
}

// HandleGmail handles POST /import/gmail
func (h *ImportHandler) HandleGmail(c *fiber.Ctx) error {
	return h.run(c, "gmail", h.gmail)
}

// HandleDrive handles POST /import/drive
func (h *ImportHandler) HandleDrive(c *fiber.Ctx) error {
	return h.run(c, "drive", h.drive)
}

func (h *ImportHandler) run(c *fiber.Ctx, source string, importer Importer) error {
	if importer == nil {
		return ingestion.ErrNotConfigured
	}

	summary, err := importer.Import(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}

	h.log.Info("📬 import finished",
		zap.String("source", source),
		zap.Int("found", summary.Found),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return c.JSON(models.ImportResponse{
		Source:   source,
		Found:    summary.Found,
		Imported: summary.Imported,
		Skipped:  summary.Skipped,
		Failed:   summary.Failed,
	})
}
