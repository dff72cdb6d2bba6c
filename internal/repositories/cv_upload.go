package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"recruitdesk/cv-intake/internal/models"
)

var ErrNotFound = errors.New("cv upload not found")

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Page is a limit/offset window. Zero values mean the defaults.
type Page struct {
	Limit  int
	Offset int
}

// Normalized applies the default and maximum limit.
func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type CVUploadRepository interface {
	Create(ctx context.Context, upload *models.CVUpload) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CVUpload, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CVUpload, error)
	// MarkProcessing moves a pending upload to processing. It reports false
	// when another worker already claimed it.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateResult(ctx context.Context, id uuid.UUID, extracted []byte) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	FindPending(ctx context.Context, limit int) ([]models.CVUpload, error)
	// ResetStaleProcessing puts uploads stuck in processing since before
	// the cutoff back to pending and returns how many were reset.
	ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error)
	// FindByRange lists uploads with from <= uploaded_at < to, newest first,
	// together with the total count of the interval.
	FindByRange(ctx context.Context, from, to time.Time, page Page) ([]models.CVUpload, int64, error)
	FindCompletedByRange(ctx context.Context, from, to time.Time) ([]models.CVUpload, error)
	FindCompleted(ctx context.Context, page Page) ([]models.CVUpload, error)
	ExistsBySourceRef(ctx context.Context, ref string) (bool, error)
}

type cvUploadRepository struct {
	db *gorm.DB
}

func NewCVUploadRepository(db *gorm.DB) CVUploadRepository {
	return &cvUploadRepository{db: db}
}

func (r *cvUploadRepository) Create(ctx context.Context, upload *models.CVUpload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(upload).Error; err != nil {
		return fmt.Errorf("failed to create cv upload: %w", err)
	}
	return nil
}

func (r *cvUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CVUpload, error) {
	var upload models.CVUpload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cv upload: %w", err)
	}
	return &upload, nil
}

func (r *cvUploadRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CVUpload, error) {
	if len(ids) == 0 {
		return []models.CVUpload{}, nil
	}
	var uploads []models.CVUpload
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("failed to find cv uploads: %w", err)
	}
	return uploads, nil
}

func (r *cvUploadRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Where("id = ? AND processing_status = ?", id, models.StatusPending).
		Updates(map[string]any{
			"processing_status": models.StatusProcessing,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark processing: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// UpdateResult stores the extracted candidate and completes the upload in
// one statement, so extracted_json never appears on a non-completed row.
func (r *cvUploadRepository) UpdateResult(ctx context.Context, id uuid.UUID, extracted []byte) error {
	result := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processing_status": models.StatusCompleted,
			"extracted_json":    datatypes.JSON(extracted),
			"error_message":     nil,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cvUploadRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processing_status": models.StatusError,
			"error_message":     errorMsg,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cvUploadRepository) FindPending(ctx context.Context, limit int) ([]models.CVUpload, error) {
	var uploads []models.CVUpload
	err := r.db.WithContext(ctx).
		Where("processing_status = ?", models.StatusPending).
		Order("uploaded_at ASC").
		Limit(limit).
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending uploads: %w", err)
	}
	return uploads, nil
}

func (r *cvUploadRepository) ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Where("processing_status = ? AND updated_at < ?", models.StatusProcessing, cutoff).
		Updates(map[string]any{
			"processing_status": models.StatusPending,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset stale uploads: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *cvUploadRepository) FindByRange(ctx context.Context, from, to time.Time, page Page) ([]models.CVUpload, int64, error) {
	page = page.Normalized()

	var total int64
	err := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Scopes(uploadedBetween(from, to)).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	uploads := []models.CVUpload{}
	err = r.db.WithContext(ctx).
		Scopes(uploadedBetween(from, to)).
		Order("uploaded_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&uploads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find uploads by range: %w", err)
	}
	return uploads, total, nil
}

func (r *cvUploadRepository) FindCompletedByRange(ctx context.Context, from, to time.Time) ([]models.CVUpload, error) {
	uploads := []models.CVUpload{}
	err := r.db.WithContext(ctx).
		Scopes(uploadedBetween(from, to)).
		Where("processing_status = ?", models.StatusCompleted).
		Order("uploaded_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find completed uploads: %w", err)
	}
	return uploads, nil
}

// uploadedBetween is the half-open interval from <= uploaded_at < to.
func uploadedBetween(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("uploaded_at >= ? AND uploaded_at < ?", from, to)
	}
}

func (r *cvUploadRepository) FindCompleted(ctx context.Context, page Page) ([]models.CVUpload, error) {
	page = page.Normalized()
	var uploads []models.CVUpload
	err := r.db.WithContext(ctx).
		Where("processing_status = ?", models.StatusCompleted).
		Order("uploaded_at ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find completed uploads: %w", err)
	}
	return uploads, nil
}

func (r *cvUploadRepository) ExistsBySourceRef(ctx context.Context, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CVUpload{}).
		Where("source_ref = ?", ref).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check source ref: %w", err)
	}
	return count > 0, nil
}
