package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Upload     *UploadHandler
	Candidates *CandidateHandler
	Screening  *ScreeningHandler
	Import     *ImportHandler
}

// Register mounts the API. auth guards every route except health.
func Register(app fiber.Router, h Handlers, auth fiber.Handler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Use(auth)

	api.Post("/upload", h.Upload.HandleUpload)
	api.Get("/uploads/:id", h.Upload.HandleGetStatus)

	api.Get("/candidates-by-range", h.Candidates.HandleByRange)
	api.Get("/candidates-by-date", h.Candidates.HandleByDate)
	api.Get("/candidates/search", h.Candidates.HandleSearch)
	api.Get("/candidates/export", h.Candidates.HandleExport)

	api.Get("/verticals", h.Screening.HandleVerticals)
	api.Get("/presets", h.Screening.HandlePresets)
	api.Get("/rules", h.Screening.HandleRules)
	api.Post("/screen", h.Screening.HandleScreen)

	api.Post("/import/gmail", h.Import.HandleGmail)
	api.Post("/import/drive", h.Import.HandleDrive)
}
