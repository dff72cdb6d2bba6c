package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"recruitdesk/cv-intake/internal/export"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/services"
	"recruitdesk/cv-intake/internal/validator"
)

// exportLimit caps how many rows one export may contain.
const exportLimit = 10000

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CandidateHandler struct {
	candidates services.CandidateService
	validator  *validator.Validator
}

func NewCandidateHandler(candidates services.CandidateService, v *validator.Validator) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		validator:  v,
	}
}

// HandleByRange handles GET /candidates-by-range?from&to. to is exclusive.
func (h *CandidateHandler) HandleByRange(c *fiber.Ctx) error {
	var q models.RangeQuery
	if err := h.bindQuery(c, &q); err != nil {
		return err
	}

	page := repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalized()
	rows, total, err := h.candidates.ListByRange(c.UserContext(), q.From, q.To, page)
	if err != nil {
		return err
	}

	return c.JSON(models.RangeResponse{
		Items:  rows,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// HandleByDate handles GET /candidates-by-date?date.
func (h *CandidateHandler) HandleByDate(c *fiber.Ctx) error {
	var q models.DateQuery
	if err := h.bindQuery(c, &q); err != nil {
		return err
	}

	page := repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalized()
	rows, total, err := h.candidates.ListByDate(c.UserContext(), q.Date, page)
	if err != nil {
		return err
	}

	return c.JSON(models.DateResponse{
		Candidates: rows,
		Total:      total,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// HandleSearch handles GET /candidates/search?q.
func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	var q models.SearchQuery
	if err := h.bindQuery(c, &q); err != nil {
		return err
	}

	rows, err := h.candidates.Search(c.UserContext(), q.Q, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(models.SearchResponse{Items: rows})
}

// HandleExport handles GET /candidates/export. With a vertical the export
// is the ranked screening of the range; without one it is the plain
// listing.
func (h *CandidateHandler) HandleExport(c *fiber.Ctx) error {
	var q models.ExportQuery
	if err := h.bindQuery(c, &q); err != nil {
		return err
	}
	if q.Format == "" {
		q.Format = "csv"
	}

	var rows []export.Row
	title := fmt.Sprintf("Candidates %s to %s", q.From, q.To)
	if q.VerticalID != "" {
		res, err := h.candidates.Screen(c.UserContext(), models.ScreenRequest{
			VerticalID: q.VerticalID,
			PresetID:   q.PresetID,
			From:       q.From,
			To:         q.To,
		})
		if err != nil {
			return err
		}
		rows = export.FromEvaluated(res.Candidates)
		title = fmt.Sprintf("%s (%s)", title, q.VerticalID)
	} else {
		all, err := h.collect(c, q.From, q.To)
		if err != nil {
			return err
		}
		rows = export.FromRows(all)
	}

	var buf bytes.Buffer
	switch q.Format {
	case "xlsx":
		if err := export.WriteXLSX(&buf, rows, title); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
	default:
		if err := export.WriteCSV(&buf, rows); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	}

	filename := fmt.Sprintf("candidates_%s_%s.%s", q.From, q.To, q.Format)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// collect pages through a range listing.
func (h *CandidateHandler) collect(c *fiber.Ctx, from, to string) ([]models.CandidateRow, error) {
	var all []models.CandidateRow
	page := repositories.Page{Limit: repositories.MaxLimit}
	for len(all) < exportLimit {
		rows, total, err := h.candidates.ListByRange(c.UserContext(), from, to, page)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) == 0 || int64(len(all)) >= total {
			break
		}
		page.Offset += len(rows)
	}
	if len(all) > exportLimit {
		all = all[:exportLimit]
	}
	return all, nil
}

func (h *CandidateHandler) bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	return h.validator.Validate(out)
}
