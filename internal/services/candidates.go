package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/dayrange"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/screening"
)

var ErrSearchDisabled = errors.New("semantic search is not configured")

// ScreenResult is a ranked screening of every completed upload in a range.
type ScreenResult struct {
	Rules      screening.Rules       `json:"rules"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Total      int                   `json:"total"`
	Passed     int                   `json:"passed"`
	Candidates []screening.Evaluated `json:"candidates"`
}

type CandidateService interface {
	Upload(ctx context.Context, id uuid.UUID) (*models.CVUpload, error)
	// ListByRange lists uploads in the half-open day interval [from, to).
	ListByRange(ctx context.Context, from, to string, page repositories.Page) ([]models.CandidateRow, int64, error)
	ListByDate(ctx context.Context, date string, page repositories.Page) ([]models.CandidateRow, int64, error)
	Screen(ctx context.Context, req models.ScreenRequest) (*ScreenResult, error)
	Search(ctx context.Context, q string, limit int) ([]models.CandidateRow, error)
}

type candidateService struct {
	repo          repositories.CVUploadRepository
	geminiService GeminiService
	index         CandidateIndex
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewCandidateService wires the read side. geminiService and index may be
// nil, which disables Search.
func NewCandidateService(
	repo repositories.CVUploadRepository,
	geminiService GeminiService,
	index CandidateIndex,
	log *zap.Logger,
) CandidateService {
	return &candidateService{
		repo:          repo,
		geminiService: geminiService,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		log:           log.Named("candidates"),
	}
}

func (s *candidateService) Upload(ctx context.Context, id uuid.UUID) (*models.CVUpload, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *candidateService) ListByRange(ctx context.Context, from, to string, page repositories.Page) ([]models.CandidateRow, int64, error) {
	start, end, err := dayrange.HalfOpenBounds(from, to)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, start, end, page)
}

func (s *candidateService) ListByDate(ctx context.Context, date string, page repositories.Page) ([]models.CandidateRow, int64, error) {
	start, end, err := dayrange.DayBounds(date)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, start, end, page)
}

func (s *candidateService) list(ctx context.Context, from, to time.Time, page repositories.Page) ([]models.CandidateRow, int64, error) {
	uploads, total, err := s.repo.FindByRange(ctx, from, to, page)
	if err != nil {
		return nil, 0, err
	}
	return toRows(uploads), total, nil
}

func (s *candidateService) Screen(ctx context.Context, req models.ScreenRequest) (*ScreenResult, error) {
	rules, err := screening.ResolveRules(req.VerticalID, req.PresetID)
	if err != nil {
		return nil, err
	}

	start, end, err := dayrange.HalfOpenBounds(req.From, req.To)
	if err != nil {
		return nil, err
	}

	uploads, err := s.repo.FindCompletedByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := &ScreenResult{
		Rules:      rules,
		From:       req.From,
		To:         req.To,
		Candidates: make([]screening.Evaluated, 0, len(uploads)),
	}

	for i := range uploads {
		row := uploads[i].Row()
		if row.Candidate == nil {
			s.log.Warn("skipping upload without candidate data", zap.String("upload_id", row.ID))
			continue
		}
		ev := screening.Evaluate(*row.Candidate, rules)
		if ev.Passed {
			result.Passed++
		}
		result.Candidates = append(result.Candidates, screening.Evaluated{CandidateRow: row, Evaluation: ev})
	}

	screening.Rank(result.Candidates)
	result.Total = len(result.Candidates)
	return result, nil
}

func (s *candidateService) Search(ctx context.Context, q string, limit int) ([]models.CandidateRow, error) {
	if s.index == nil || s.geminiService == nil {
		return nil, ErrSearchDisabled
	}
	if limit <= 0 {
		limit = 10
	}

	embedding, err := s.geminiService.GenerateEmbedding(ctx, s.promptBuilder.BuildSearchQuery(q))
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// several chunks of one CV may match
	hits, err := s.index.Search(ctx, embedding, limit*3)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search hits", zap.String("q", q), zap.String("context", FormatSearchContext(hits)))

	order := make([]uuid.UUID, 0, limit)
	seen := make(map[uuid.UUID]bool)
	for _, hit := range hits {
		id, err := uuid.Parse(hit.UploadID)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
		if len(order) == limit {
			break
		}
	}

	uploads, err := s.repo.FindByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.CVUpload, len(uploads))
	for i := range uploads {
		byID[uploads[i].ID] = &uploads[i]
	}

	rows := make([]models.CandidateRow, 0, len(order))
	for _, id := range order {
		if u, ok := byID[id]; ok {
			rows = append(rows, u.Row())
		}
	}
	return rows, nil
}

func toRows(uploads []models.CVUpload) []models.CandidateRow {
	rows := make([]models.CandidateRow, 0, len(uploads))
	for i := range uploads {
		rows = append(rows, uploads[i].Row())
	}
	return rows
}
