package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/middleware"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/services"
)

type UploadHandler struct {
	intake     services.IntakeService
	candidates services.CandidateService
	log        *zap.Logger
}

func NewUploadHandler(
	intake services.IntakeService,
	candidates services.CandidateService,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		intake:     intake,
		candidates: candidates,
		log:        log.Named("upload"),
	}
}

type uploadFailure struct {
	OriginalFilename string `json:"original_filename"`
	Error            string `json:"error"`
}

// HandleUpload handles POST /upload. Every "cv" part is stored and queued
// for extraction; files that are rejected are reported next to the
// accepted ones.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	files := form.File["cv"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files uploaded, send one or more PDF files as 'cv'")
	}

	userID := middleware.UserID(c)
	uploads := make([]models.UploadResponse, 0, len(files))
	failures := make([]uploadFailure, 0)
	var firstErr error

	for _, fh := range files {
		upload, err := h.ingestFile(c, fh, userID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			h.log.Warn("upload rejected", zap.String("file", fh.Filename), zap.Error(err))
			failures = append(failures, uploadFailure{OriginalFilename: fh.Filename, Error: err.Error()})
			continue
		}
		uploads = append(uploads, models.UploadResponse{
			ID:               upload.ID.String(),
			OriginalFilename: upload.OriginalFilename,
			FileURL:          upload.FileURL,
			Status:           string(upload.ProcessingStatus),
		})
	}

	if len(uploads) == 0 {
		return firstErr
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uploads": uploads,
		"failed":  failures,
	})
}

func (h *UploadHandler) ingestFile(c *fiber.Ctx, fh *multipart.FileHeader, userID string) (*models.CVUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	return h.intake.Ingest(c.UserContext(), services.IntakeRequest{
		Filename: fh.Filename,
		Reader:   f,
		Size:     fh.Size,
		UserID:   userID,
		Source:   models.SourceUpload,
	})
}

// HandleGetStatus handles GET /uploads/:id.
func (h *UploadHandler) HandleGetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid upload id format")
	}

	upload, err := h.candidates.Upload(c.UserContext(), id)
	if err != nil {
		return err
	}

	resp := models.UploadStatusResponse{
		ID:     upload.ID.String(),
		Status: string(upload.ProcessingStatus),
	}

	candidate, err := upload.Candidate()
	if err != nil {
		return err
	}
	resp.Candidate = candidate

	if upload.ProcessingStatus == models.StatusError && upload.ErrorMessage != nil {
		resp.ErrorMessage = upload.ErrorMessage
	}

	return c.JSON(resp)
}
