package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
	"recruitdesk/cv-intake/internal/screening"
)

func completed(id string, at time.Time, candidate string) models.CVUpload {
	return models.CVUpload{
		ID:               uuid.MustParse(id),
		OriginalFilename: id[:4] + ".pdf",
		ProcessingStatus: models.StatusCompleted,
		ExtractedJSON:    datatypes.JSON(candidate),
		UploadedAt:       at,
	}
}

var (
	day     = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	idA     = "aaaaaaaa-0000-0000-0000-000000000001"
	idB     = "bbbbbbbb-0000-0000-0000-000000000002"
	idC     = "cccccccc-0000-0000-0000-000000000003"
	idD     = "dddddddd-0000-0000-0000-000000000004"
	devJSON = `{"name":"Ola","educational_qualifications":"BSc Computer Science","job_history":"Senior Software Engineer at Acme, 6 years of experience","skill_set":"go","score":"9","countries":"Poland"}`
	tutor   = `{"name":"Sam","educational_qualifications":"TEFL","job_history":"Tutor","score":"4","countries":"Brazil"}`
)

func seededRepo() *memoryRepo {
	pending := models.CVUpload{ID: uuid.MustParse(idC), ProcessingStatus: models.StatusPending, UploadedAt: day.Add(3 * time.Hour)}
	return newMemoryRepo(
		completed(idA, day.Add(time.Hour), devJSON),
		completed(idB, day.Add(2*time.Hour), tutor),
		pending,
		completed(idD, day.Add(24*time.Hour), devJSON),
	)
}

func TestListByDateIsHalfOpen(t *testing.T) {
	s := NewCandidateService(seededRepo(), nil, nil, zap.NewNop())

	rows, total, err := s.ListByDate(context.Background(), "2024-01-15", repositories.Page{})
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("total = %d, rows = %d, want 3", total, len(rows))
	}
	if rows[0].ID != idC || rows[0].Candidate != nil {
		t.Errorf("expected newest pending row first without candidate, got %+v", rows[0])
	}

	rows, total, err = s.ListByRange(context.Background(), "2024-01-15", "2024-01-17", repositories.Page{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListByRange: %v", err)
	}
	if total != 4 || len(rows) != 1 || rows[0].ID != idC {
		t.Fatalf("unexpected page: total=%d rows=%+v", total, rows)
	}

	if _, _, err := s.ListByRange(context.Background(), "2024-01-15", "2024-01-15", repositories.Page{}); err == nil {
		t.Fatalf("expected error for empty interval")
	}
}

func TestScreenRanksCandidates(t *testing.T) {
	s := NewCandidateService(seededRepo(), nil, nil, zap.NewNop())

	res, err := s.Screen(context.Background(), models.ScreenRequest{
		VerticalID: "tech",
		PresetID:   "tech-senior",
		From:       "2024-01-15",
		To:         "2024-01-16",
	})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if res.Total != 2 || res.Passed != 1 {
		t.Fatalf("total=%d passed=%d, candidates %+v", res.Total, res.Passed, res.Candidates)
	}
	if res.Candidates[0].ID != idA || !res.Candidates[0].Evaluation.Passed {
		t.Errorf("expected the engineer to rank first, got %+v", res.Candidates[0])
	}

	_, err = s.Screen(context.Background(), models.ScreenRequest{VerticalID: "tech", PresetID: "tech-wizard", From: "2024-01-15", To: "2024-01-16"})
	if !errors.Is(err, screening.ErrUnknownPreset) {
		t.Fatalf("error = %v, want ErrUnknownPreset", err)
	}
}

func TestSearch(t *testing.T) {
	repo := seededRepo()

	if _, err := NewCandidateService(repo, nil, nil, zap.NewNop()).Search(context.Background(), "golang", 5); !errors.Is(err, ErrSearchDisabled) {
		t.Fatalf("error = %v, want ErrSearchDisabled", err)
	}

	index := newStubIndex()
	index.hits = []SearchResult{
		{UploadID: idB, Score: 0.9},
		{UploadID: idB, Score: 0.8},
		{UploadID: "not-a-uuid", Score: 0.7},
		{UploadID: idA, Score: 0.6},
		{UploadID: idD, Score: 0.5},
	}
	s := NewCandidateService(repo, &stubGemini{}, index, zap.NewNop())

	rows, err := s.Search(context.Background(), "golang", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != idB || rows[1].ID != idA {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
