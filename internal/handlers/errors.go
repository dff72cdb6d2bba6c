package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/dayrange"
	"recruitdesk/cv-intake/internal/ingestion"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/screening"
	"recruitdesk/cv-intake/internal/services"
	"recruitdesk/cv-intake/internal/validator"
)

// ErrorHandler renders every error as {"error", "code"}. Validation errors
// also carry the offending fields. Server errors only expose a generic
// message; the cause goes to the log.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusCode(err)

		body := fiber.Map{
			"error": publicMessage(err, code),
			"code":  code,
		}

		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			body["fields"] = verr.Errors
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("❌ request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(body)
	}
}

func publicMessage(err error, code int) string {
	if code < fiber.StatusInternalServerError {
		return err.Error()
	}
	switch {
	case errors.Is(err, services.ErrSearchDisabled):
		return services.ErrSearchDisabled.Error()
	case errors.Is(err, ingestion.ErrNotConfigured):
		return ingestion.ErrNotConfigured.Error()
	default:
		return utils.StatusMessage(code)
	}
}

func statusCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, dayrange.ErrInvalidRange),
		errors.Is(err, screening.ErrUnknownVertical),
		errors.Is(err, screening.ErrUnknownPreset),
		errors.Is(err, screening.ErrPresetVerticalMismatch),
		errors.Is(err, services.ErrInvalidFileType):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateUpload):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrSearchDisabled),
		errors.Is(err, ingestion.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
