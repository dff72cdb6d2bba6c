package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm traces.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

// newDryRunRepo builds the repository on a postgres dialector that never
// connects; statements are rendered and recorded instead of executed.
func newDryRunRepo(t *testing.T) (CVUploadRepository, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=cv password=cv dbname=cv port=5432 sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return NewCVUploadRepository(db), rec
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(sql, part) {
			t.Errorf("statement %q does not contain %q", sql, part)
		}
	}
}

func TestFindByRangeIsHalfOpenNewestFirst(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	if _, _, err := repo.FindByRange(context.Background(), from, to, Page{Limit: 10, Offset: 20}); err != nil {
		t.Fatalf("FindByRange: %v", err)
	}
	if len(rec.statements) != 2 {
		t.Fatalf("expected count and select statements, got %q", rec.statements)
	}

	where := "WHERE uploaded_at >= '2024-01-15 00:00:00' AND uploaded_at < '2024-01-16 00:00:00'"
	assertContains(t, rec.statements[0], "count(*)", `"cv_uploads"`, where)
	assertContains(t, rec.statements[1], `"cv_uploads"`, where, "ORDER BY uploaded_at DESC", "LIMIT 10", "OFFSET 20")
}

func TestFindCompletedByRangeFiltersStatus(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if _, err := repo.FindCompletedByRange(context.Background(), from, from.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("FindCompletedByRange: %v", err)
	}
	if len(rec.statements) != 1 {
		t.Fatalf("expected one statement, got %q", rec.statements)
	}
	assertContains(t, rec.statements[0],
		"processing_status = 'completed'",
		"uploaded_at >= '2024-01-15 00:00:00' AND uploaded_at < '2024-01-18 00:00:00'",
		"ORDER BY uploaded_at DESC",
	)
}

func TestResetStaleProcessingOnlyTouchesOldProcessingRows(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	cutoff := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	if _, err := repo.ResetStaleProcessing(context.Background(), cutoff); err != nil {
		t.Fatalf("ResetStaleProcessing: %v", err)
	}
	if len(rec.statements) != 1 {
		t.Fatalf("expected one statement, got %q", rec.statements)
	}
	assertContains(t, rec.statements[0],
		`UPDATE "cv_uploads" SET`,
		`"processing_status"='pending'`,
		"WHERE processing_status = 'processing' AND updated_at < '2024-01-15 10:00:00'",
	)
}

func TestMarkProcessingOnlyClaimsPending(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	id := uuid.MustParse("3f2c1a8e-8d4b-4a53-9a55-0c1c5e4f7b21")

	if _, err := repo.MarkProcessing(context.Background(), id); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if len(rec.statements) != 1 {
		t.Fatalf("expected one statement, got %q", rec.statements)
	}
	assertContains(t, rec.statements[0],
		`"processing_status"='processing'`,
		"WHERE id = '3f2c1a8e-8d4b-4a53-9a55-0c1c5e4f7b21' AND processing_status = 'pending'",
	)
}
