package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/models"
)

func TestIngestStoresAndEnqueues(t *testing.T) {
	repo := newMemoryRepo()
	queue := &recordingQueue{}
	received := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	s := NewIntakeService(repo, NewLocalStorage(t.TempDir(), "http://files"), queue, 1024, zap.NewNop())

	upload, err := s.Ingest(context.Background(), IntakeRequest{
		Filename:   "inbox/Jane CV.pdf",
		Reader:     strings.NewReader("%PDF-1.7 jane"),
		Size:       13,
		UserID:     "user-1",
		Source:     models.SourceGmail,
		SourceRef:  "gmail:abc:Jane CV.pdf",
		ReceivedAt: &received,
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if upload.ProcessingStatus != models.StatusPending || upload.Source != models.SourceGmail {
		t.Errorf("unexpected upload %+v", upload)
	}
	if upload.OriginalFilename != "Jane CV.pdf" {
		t.Errorf("OriginalFilename = %q", upload.OriginalFilename)
	}
	if !strings.HasPrefix(upload.FileURL, "http://files/cv_") {
		t.Errorf("FileURL = %q", upload.FileURL)
	}
	if len(queue.ids) != 1 || queue.ids[0] != upload.ID {
		t.Errorf("queue = %v", queue.ids)
	}
	if repo.get(upload.ID) == nil {
		t.Fatalf("upload not persisted")
	}

	_, err = s.Ingest(context.Background(), IntakeRequest{
		Filename:  "Jane CV.pdf",
		Reader:    strings.NewReader("%PDF-1.7 jane"),
		Size:      13,
		SourceRef: "gmail:abc:Jane CV.pdf",
	})
	if !errors.Is(err, ErrDuplicateUpload) {
		t.Fatalf("second ingest error = %v, want ErrDuplicateUpload", err)
	}
}

func TestIngestRejects(t *testing.T) {
	tests := []struct {
		name string
		req  IntakeRequest
		want error
	}{
		{
			name: "extension",
			req:  IntakeRequest{Filename: "cv.docx", Reader: strings.NewReader("%PDF-1.4"), Size: 8},
			want: ErrInvalidFileType,
		},
		{
			name: "not a pdf",
			req:  IntakeRequest{Filename: "cv.pdf", Reader: strings.NewReader("<html>"), Size: 6},
			want: ErrInvalidFileType,
		},
		{
			name: "declared size",
			req:  IntakeRequest{Filename: "cv.pdf", Reader: strings.NewReader("%PDF-1.4"), Size: 4096},
			want: ErrFileTooLarge,
		},
		{
			name: "unknown size",
			req:  IntakeRequest{Filename: "cv.pdf", Reader: strings.NewReader("%PDF-1.4" + strings.Repeat("x", 64)), Size: -1},
			want: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo()
			queue := &recordingQueue{}
			s := NewIntakeService(repo, NewLocalStorage(t.TempDir(), "http://files"), queue, 32, zap.NewNop())

			_, err := s.Ingest(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Ingest() error = %v, want %v", err, tt.want)
			}
			if len(queue.ids) != 0 || len(repo.uploads) != 0 {
				t.Errorf("rejected file was stored")
			}
		})
	}
}
