package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/screening"
	"recruitdesk/cv-intake/internal/services"
	"recruitdesk/cv-intake/internal/validator"
)

type ScreeningHandler struct {
	candidates services.CandidateService
	validator  *validator.Validator
}

func NewScreeningHandler(candidates services.CandidateService, v *validator.Validator) *ScreeningHandler {
	return &ScreeningHandler{
		candidates: candidates,
		validator:  v,
	}
}

// HandleVerticals handles GET /verticals
func (h *ScreeningHandler) HandleVerticals(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"verticals": screening.Verticals()})
}

// HandlePresets handles GET /presets?vertical=
func (h *ScreeningHandler) HandlePresets(c *fiber.Ctx) error {
	verticalID := c.Query("vertical")
	if verticalID != "" {
		if _, ok := screening.Vertical(verticalID); !ok {
			return fmt.Errorf("%w: %q", screening.ErrUnknownVertical, verticalID)
		}
	}
	return c.JSON(fiber.Map{"presets": screening.PresetsForVertical(verticalID)})
}

// HandleRules handles GET /rules?vertical=&preset=
func (h *ScreeningHandler) HandleRules(c *fiber.Ctx) error {
	var q models.RulesQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Validate(&q); err != nil {
		return err
	}

	rules, err := screening.ResolveRules(q.VerticalID, q.PresetID)
	if err != nil {
		return err
	}
	return c.JSON(rules)
}

// HandleScreen handles POST /screen
func (h *ScreeningHandler) HandleScreen(c *fiber.Ctx) error {
	var req models.ScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request payload")
	}
	if err := h.validator.Validate(&req); err != nil {
		return err
	}

	result, err := h.candidates.Screen(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
