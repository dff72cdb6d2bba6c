package ingestion

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"recruitdesk/cv-intake/internal/config"
	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/services"
)

// gmailAPI is the part of the Gmail service the importer needs.
type gmailAPI interface {
	ListMessages(ctx context.Context, query, pageToken string, max int64) ([]*gmail.Message, string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error)
}

type gmailService struct {
	svc *gmail.Service
}

func (g gmailService) ListMessages(ctx context.Context, query, pageToken string, max int64) ([]*gmail.Message, string, error) {
	call := g.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	r, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return r.Messages, r.NextPageToken, nil
}

func (g gmailService) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	return g.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
}

func (g gmailService) GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error) {
	a, err := g.svc.Users.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return a.Data, nil
}

// GmailImporter ingests PDF attachments from messages matching a search
// query.
type GmailImporter struct {
	api        gmailAPI
	intake     services.IntakeService
	query      string
	maxResults int64
	log        *zap.Logger
}

func NewGmailImporter(ctx context.Context, cfg config.GoogleConfig, intake services.IntakeService, log *zap.Logger) (*GmailImporter, error) {
	client, err := NewGoogleClient(ctx, cfg.CredentialsFile, cfg.TokenFile, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return newGmailImporter(gmailService{svc: srv}, intake, cfg.GmailQuery, cfg.GmailMaxResults, log), nil
}

func newGmailImporter(api gmailAPI, intake services.IntakeService, query string, maxResults int64, log *zap.Logger) *GmailImporter {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &GmailImporter{
		api:        api,
		intake:     intake,
		query:      query,
		maxResults: maxResults,
		log:        log.Named("gmail"),
	}
}

// Import walks up to maxResults matching messages. Individual attachment
// failures are counted, not returned; only a failed listing is an error.
func (g *GmailImporter) Import(ctx context.Context, userID string) (ImportSummary, error) {
	var summary ImportSummary
	seen := int64(0)
	pageToken := ""

	for seen < g.maxResults {
		msgs, next, err := g.api.ListMessages(ctx, g.query, pageToken, g.maxResults-seen)
		if err != nil {
			return summary, fmt.Errorf("unable to retrieve messages: %w", err)
		}

		for _, m := range msgs {
			seen++
			g.importMessage(ctx, m.Id, userID, &summary)
			if seen >= g.maxResults {
				break
			}
		}

		if next == "" || len(msgs) == 0 {
			break
		}
		pageToken = next
	}

	g.log.Info("📬 gmail import finished",
		zap.Int("found", summary.Found),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (g *GmailImporter) importMessage(ctx context.Context, id, userID string, summary *ImportSummary) {
	message, err := g.api.GetMessage(ctx, id)
	if err != nil {
		g.log.Warn("unable to retrieve message", zap.String("message_id", id), zap.Error(err))
		summary.Failed++
		return
	}

	var received *time.Time
	if message.InternalDate > 0 {
		t := time.UnixMilli(message.InternalDate).UTC()
		received = &t
	}

	for _, part := range pdfParts(message.Payload) {
		summary.Found++
		ref := fmt.Sprintf("gmail:%s:%s", id, part.Filename)

		if known, err := g.intake.Known(ctx, ref); err == nil && known {
			summary.Skipped++
			continue
		}

		data, err := g.partData(ctx, id, part)
		if err != nil {
			g.log.Warn("unable to retrieve attachment",
				zap.String("message_id", id), zap.String("file", part.Filename), zap.Error(err))
			summary.Failed++
			continue
		}

		_, err = g.intake.Ingest(ctx, services.IntakeRequest{
			Filename:   part.Filename,
			Reader:     bytes.NewReader(data),
			Size:       int64(len(data)),
			UserID:     userID,
			Source:     models.SourceGmail,
			SourceRef:  ref,
			ReceivedAt: received,
		})
		switch {
		case errors.Is(err, services.ErrDuplicateUpload):
			summary.Skipped++
		case err != nil:
			g.log.Warn("unable to ingest attachment",
				zap.String("message_id", id), zap.String("file", part.Filename), zap.Error(err))
			summary.Failed++
		default:
			summary.Imported++
		}
	}
}

func (g *GmailImporter) partData(ctx context.Context, messageID string, part *gmail.MessagePart) ([]byte, error) {
	encoded := ""
	if part.Body != nil {
		encoded = part.Body.Data
		if part.Body.AttachmentId != "" {
			var err error
			encoded, err = g.api.GetAttachment(ctx, messageID, part.Body.AttachmentId)
			if err != nil {
				return nil, err
			}
		}
	}
	if encoded == "" {
		return nil, errors.New("attachment has no data")
	}
	return decodeBase64URL(encoded)
}

// pdfParts collects PDF attachments from arbitrarily nested multipart
// payloads.
func pdfParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}
	var out []*gmail.MessagePart
	if isPDF(part) {
		out = append(out, part)
	}
	for _, child := range part.Parts {
		out = append(out, pdfParts(child)...)
	}
	return out
}

func isPDF(part *gmail.MessagePart) bool {
	if part.Filename == "" {
		return false
	}
	return strings.EqualFold(path.Ext(part.Filename), ".pdf") || part.MimeType == "application/pdf"
}

// decodeBase64URL accepts padded and unpadded base64url.
func decodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("unable to decode attachment: %w", err)
	}
	return data, nil
}
