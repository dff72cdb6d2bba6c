package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"recruitdesk/cv-intake/internal/config"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/services"
)

type driveAPI interface {
	ListPDFs(ctx context.Context, folderID, pageToken string) ([]*drive.File, string, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

type driveService struct {
	svc *drive.Service
}

func (d driveService) ListPDFs(ctx context.Context, folderID, pageToken string) ([]*drive.File, string, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType = 'application/pdf' and trashed = false",
		strings.ReplaceAll(folderID, "'", `\'`))

	call := d.svc.Files.List().
		Q(q).
		Fields("nextPageToken, files(id, name, size, createdTime)").
		PageSize(100).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	r, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return r.Files, r.NextPageToken, nil
}

func (d driveService) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DriveImporter ingests every PDF in one Drive folder.
type DriveImporter struct {
	api      driveAPI
	intake   services.IntakeService
	folderID string
	log      *zap.Logger
}

func NewDriveImporter(ctx context.Context, cfg config.GoogleConfig, intake services.IntakeService, log *zap.Logger) (*DriveImporter, error) {
	if cfg.DriveFolderID == "" {
		return nil, fmt.Errorf("%w: DRIVE_FOLDER_ID is not set", ErrNotConfigured)
	}

	client, err := NewGoogleClient(ctx, cfg.CredentialsFile, cfg.TokenFile, drive.DriveReadonlyScope)
	if err != nil {
		return nil, err
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}

	return newDriveImporter(driveService{svc: srv}, intake, cfg.DriveFolderID, log), nil
}

func newDriveImporter(api driveAPI, intake services.IntakeService, folderID string, log *zap.Logger) *DriveImporter {
	return &DriveImporter{api: api, intake: intake, folderID: folderID, log: log.Named("drive")}
}

func (d *DriveImporter) Import(ctx context.Context, userID string) (ImportSummary, error) {
	var summary ImportSummary
	pageToken := ""

	for {
		files, next, err := d.api.ListPDFs(ctx, d.folderID, pageToken)
		if err != nil {
			return summary, fmt.Errorf("unable to list drive folder: %w", err)
		}

		for _, f := range files {
			summary.Found++
			d.importFile(ctx, f, userID, &summary)
		}

		if next == "" {
			break
		}
		pageToken = next
	}

	d.log.Info("📁 drive import finished",
		zap.Int("found", summary.Found),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (d *DriveImporter) importFile(ctx context.Context, f *drive.File, userID string, summary *ImportSummary) {
	ref := "drive:" + f.Id

	known, err := d.intake.Known(ctx, ref)
	if err != nil {
		d.log.Warn("unable to check file", zap.String("file_id", f.Id), zap.Error(err))
		summary.Failed++
		return
	}
	if known {
		summary.Skipped++
		return
	}

	body, err := d.api.Download(ctx, f.Id)
	if err != nil {
		d.log.Warn("unable to download file", zap.String("file_id", f.Id), zap.Error(err))
		summary.Failed++
		return
	}
	defer body.Close()

	var received *time.Time
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		t = t.UTC()
		received = &t
	}

	size := f.Size
	if size <= 0 {
		size = -1
	}

	_, err = d.intake.Ingest(ctx, services.IntakeRequest{
		Filename:   f.Name,
		Reader:     body,
		Size:       size,
		UserID:     userID,
		Source:     models.SourceDrive,
		SourceRef:  ref,
		ReceivedAt: received,
	})
	switch {
	case errors.Is(err, services.ErrDuplicateUpload):
		summary.Skipped++
	case err != nil:
		d.log.Warn("unable to ingest file", zap.String("file_id", f.Id), zap.String("file", f.Name), zap.Error(err))
		summary.Failed++
	default:
		summary.Imported++
	}
}
