package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
)

var errNoCandidate = errors.New("extraction returned no candidate details")

type ProcessorService interface {
	// ProcessUpload runs one pending upload through parsing, extraction and
	// indexing. Uploads already claimed by another worker are skipped.
	ProcessUpload(ctx context.Context, id uuid.UUID) error
	// IndexUpload re-embeds the CV of a completed upload.
	IndexUpload(ctx context.Context, upload *models.CVUpload) error
}

type processorService struct {
	repo          repositories.CVUploadRepository
	storage       StorageService
	pdfParser     PDFParserService
	geminiService GeminiService
	index         CandidateIndex
	chunker       TextChunker
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewProcessorService builds the extraction pipeline. index may be nil, in
// which case CVs are not embedded.
func NewProcessorService(
	repo repositories.CVUploadRepository,
	storage StorageService,
	pdfParser PDFParserService,
	geminiService GeminiService,
	index CandidateIndex,
	log *zap.Logger,
) ProcessorService {
	return &processorService{
		repo:          repo,
		storage:       storage,
		pdfParser:     pdfParser,
		geminiService: geminiService,
		index:         index,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
		log:           log.Named("processor"),
	}
}

func (p *processorService) ProcessUpload(ctx context.Context, id uuid.UUID) error {
	claimed, err := p.repo.MarkProcessing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to claim upload: %w", err)
	}
	if !claimed {
		p.log.Debug("upload already claimed", zap.Stringer("upload_id", id))
		return nil
	}

	p.log.Info("🔄 processing upload", zap.Stringer("upload_id", id))

	upload, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return p.fail(ctx, id, "upload not found", err)
	}

	p.log.Debug("📄 parsing CV", zap.String("file", upload.OriginalFilename))
	text, err := p.readText(ctx, upload)
	if err != nil {
		return p.fail(ctx, id, "failed to read CV", err)
	}

	p.log.Debug("🤖 extracting candidate", zap.Int("chars", len(text)))
	candidate, err := p.extract(ctx, text, upload.OriginalFilename)
	if err != nil {
		return p.fail(ctx, id, "failed to extract candidate", err)
	}

	payload, err := json.Marshal(candidate)
	if err != nil {
		return p.fail(ctx, id, "failed to encode candidate", err)
	}

	// Terminal status writes outlive a shutdown cancel so the row never
	// stays in processing.
	if err := p.repo.UpdateResult(context.WithoutCancel(ctx), id, payload); err != nil {
		return p.fail(ctx, id, "failed to save result", err)
	}

	// A failed embedding leaves the upload searchable by date only.
	if err := p.indexText(ctx, id.String(), text); err != nil {
		p.log.Warn("⚠️ failed to index CV", zap.Stringer("upload_id", id), zap.Error(err))
	}

	p.log.Info("✅ upload completed", zap.Stringer("upload_id", id), zap.String("candidate", string(candidate.Name)))
	return nil
}

func (p *processorService) IndexUpload(ctx context.Context, upload *models.CVUpload) error {
	if upload.ProcessingStatus != models.StatusCompleted {
		return fmt.Errorf("upload %s is %s, not completed", upload.ID, upload.ProcessingStatus)
	}
	text, err := p.readText(ctx, upload)
	if err != nil {
		return err
	}
	return p.indexText(ctx, upload.ID.String(), text)
}

func (p *processorService) readText(ctx context.Context, upload *models.CVUpload) (string, error) {
	rc, err := p.storage.Open(ctx, upload.FileKey)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content, err := p.pdfParser.ExtractText(data)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func (p *processorService) extract(ctx context.Context, text, filename string) (*models.CandidateData, error) {
	prompt := p.promptBuilder.BuildCandidateExtractionPrompt(text, filename)

	response, err := p.geminiService.GenerateJSONWithRetry(ctx, prompt, 0.1)
	if err != nil {
		return nil, err
	}

	var candidate models.CandidateData
	if err := parseJSONResponse(response, &candidate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(candidate.Name)) == "" &&
		strings.TrimSpace(string(candidate.Email)) == "" &&
		strings.TrimSpace(string(candidate.JobHistory)) == "" {
		return nil, errNoCandidate
	}
	return &candidate, nil
}

func (p *processorService) indexText(ctx context.Context, uploadID, text string) error {
	if p.index == nil {
		return nil
	}

	if err := p.index.DeleteUpload(ctx, uploadID); err != nil {
		return err
	}

	for i, chunk := range p.chunker.ChunkText(text, defaultChunkSize, defaultChunkOverlap) {
		embedding, err := p.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		if err := p.index.UpsertChunk(ctx, uploadID, i, chunk, embedding); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return nil
}

func (p *processorService) fail(ctx context.Context, id uuid.UUID, msg string, cause error) error {
	full := fmt.Sprintf("%s: %v", msg, cause)
	p.log.Error("❌ upload failed", zap.Stringer("upload_id", id), zap.String("reason", full))
	if err := p.repo.UpdateError(context.WithoutCancel(ctx), id, full); err != nil {
		p.log.Error("failed to record upload error", zap.Stringer("upload_id", id), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", msg, cause)
}

func parseJSONResponse(response string, target any) error {
	jsonStr := extractJSON(response)
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSON strips markdown fences and anything around the outermost
// JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj > startObj && (startArr == -1 || startObj < startArr) {
		return text[startObj : endObj+1]
	}
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}
