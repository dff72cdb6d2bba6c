package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
)

var (
	ErrDuplicateUpload = errors.New("cv already imported")
	ErrInvalidFileType = errors.New("only PDF files are accepted")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
)

var pdfMagic = []byte("%PDF-")

// IntakeRequest describes one CV arriving from any source. Size may be -1
// when unknown.
type IntakeRequest struct {
	Filename   string
	Reader     io.Reader
	Size       int64
	UserID     string
	Source     models.UploadSource
	SourceRef  string
	ReceivedAt *time.Time
}

// Enqueuer hands a stored upload to background processing.
type Enqueuer interface {
	Enqueue(uploadID uuid.UUID) bool
}

type IntakeService interface {
	Ingest(ctx context.Context, req IntakeRequest) (*models.CVUpload, error)
	// Known reports whether a CV with this source reference was already
	// ingested, so importers can skip the download.
	Known(ctx context.Context, sourceRef string) (bool, error)
}

type intakeService struct {
	repo        repositories.CVUploadRepository
	storage     StorageService
	queue       Enqueuer
	maxFileSize int64
	log         *zap.Logger
}

func NewIntakeService(
	repo repositories.CVUploadRepository,
	storage StorageService,
	queue Enqueuer,
	maxFileSize int64,
	log *zap.Logger,
) IntakeService {
	return &intakeService{
		repo:        repo,
		storage:     storage,
		queue:       queue,
		maxFileSize: maxFileSize,
		log:         log.Named("intake"),
	}
}

func (s *intakeService) Known(ctx context.Context, sourceRef string) (bool, error) {
	return s.repo.ExistsBySourceRef(ctx, sourceRef)
}

func (s *intakeService) Ingest(ctx context.Context, req IntakeRequest) (*models.CVUpload, error) {
	if strings.ToLower(filepath.Ext(req.Filename)) != ".pdf" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, req.Filename)
	}
	if s.maxFileSize > 0 && req.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, req.Size)
	}

	if req.SourceRef != "" {
		exists, err := s.repo.ExistsBySourceRef(ctx, req.SourceRef)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateUpload
		}
	}

	br := bufio.NewReader(req.Reader)
	head, err := br.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		return nil, fmt.Errorf("%w: %s is not a PDF document", ErrInvalidFileType, req.Filename)
	}

	var body io.Reader = br
	if s.maxFileSize > 0 {
		body = &limitedReader{r: br, remaining: s.maxFileSize}
	}

	stored, err := s.storage.Save(ctx, req.Filename, body, req.Size)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	source := req.Source
	if source == "" {
		source = models.SourceUpload
	}

	upload := &models.CVUpload{
		UserID:           req.UserID,
		FileKey:          stored.Key,
		FileURL:          stored.URL,
		OriginalFilename: filepath.Base(req.Filename),
		Source:           source,
		SourceRef:        req.SourceRef,
		ProcessingStatus: models.StatusPending,
		ReceivedAt:       req.ReceivedAt,
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		if delErr := s.storage.Delete(ctx, stored.Key); delErr != nil {
			s.log.Warn("failed to remove orphaned file", zap.String("key", stored.Key), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("📥 cv stored",
		zap.Stringer("upload_id", upload.ID),
		zap.String("source", string(source)),
		zap.String("file", upload.OriginalFilename))

	if s.queue != nil {
		s.queue.Enqueue(upload.ID)
	}

	return upload, nil
}

// limitedReader fails with ErrFileTooLarge instead of silently truncating.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
