package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/repositories"
)

type memoryRepo struct {
	mu        sync.Mutex
	uploads   map[uuid.UUID]*models.CVUpload
	resultErr error
}

func newMemoryRepo(uploads ...models.CVUpload) *memoryRepo {
	r := &memoryRepo{uploads: make(map[uuid.UUID]*models.CVUpload)}
	for i := range uploads {
		u := uploads[i]
		r.uploads[u.ID] = &u
	}
	return r
}

func (r *memoryRepo) Create(_ context.Context, upload *models.CVUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now().UTC()
	}
	u := *upload
	r.uploads[u.ID] = &u
	return nil
}

func (r *memoryRepo) get(id uuid.UUID) *models.CVUpload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploads[id]
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CVUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.CVUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CVUpload
	for _, id := range ids {
		if u, ok := r.uploads[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memoryRepo) MarkProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok || u.ProcessingStatus != models.StatusPending {
		return false, nil
	}
	u.ProcessingStatus = models.StatusProcessing
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

// UpdateResult and UpdateError fail on a canceled context like a real
// database call would.
func (r *memoryRepo) UpdateResult(ctx context.Context, id uuid.UUID, extracted []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resultErr != nil {
		return r.resultErr
	}
	u, ok := r.uploads[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.ProcessingStatus = models.StatusCompleted
	u.ExtractedJSON = datatypes.JSON(extracted)
	u.ErrorMessage = nil
	return nil
}

func (r *memoryRepo) UpdateError(ctx context.Context, id uuid.UUID, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.ProcessingStatus = models.StatusError
	u.ErrorMessage = &msg
	return nil
}

func (r *memoryRepo) FindPending(_ context.Context, limit int) ([]models.CVUpload, error) {
	return r.filter(func(u *models.CVUpload) bool { return u.ProcessingStatus == models.StatusPending }), nil
}

func (r *memoryRepo) ResetStaleProcessing(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.uploads {
		if u.ProcessingStatus == models.StatusProcessing && u.UpdatedAt.Before(cutoff) {
			u.ProcessingStatus = models.StatusPending
			u.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) FindByRange(_ context.Context, from, to time.Time, page repositories.Page) ([]models.CVUpload, int64, error) {
	all := r.filter(func(u *models.CVUpload) bool {
		return !u.UploadedAt.Before(from) && u.UploadedAt.Before(to)
	})
	total := int64(len(all))
	if page.Offset < len(all) {
		all = all[page.Offset:]
	} else {
		all = nil
	}
	if page.Limit > 0 && len(all) > page.Limit {
		all = all[:page.Limit]
	}
	return all, total, nil
}

func (r *memoryRepo) FindCompletedByRange(_ context.Context, from, to time.Time) ([]models.CVUpload, error) {
	return r.filter(func(u *models.CVUpload) bool {
		return u.ProcessingStatus == models.StatusCompleted && !u.UploadedAt.Before(from) && u.UploadedAt.Before(to)
	}), nil
}

func (r *memoryRepo) FindCompleted(_ context.Context, page repositories.Page) ([]models.CVUpload, error) {
	return r.filter(func(u *models.CVUpload) bool { return u.ProcessingStatus == models.StatusCompleted }), nil
}

func (r *memoryRepo) ExistsBySourceRef(_ context.Context, ref string) (bool, error) {
	return len(r.filter(func(u *models.CVUpload) bool { return ref != "" && u.SourceRef == ref })) > 0, nil
}

// filter returns matches newest first.
func (r *memoryRepo) filter(keep func(*models.CVUpload) bool) []models.CVUpload {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CVUpload{}
	for _, u := range r.uploads {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

type stubParser struct {
	text string
	err  error
}

func (p stubParser) ExtractText(data []byte) (*PDFContent, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &PDFContent{Text: p.text, PageCount: 1}, nil
}

type stubGemini struct {
	response  string
	err       error
	embedErr  error
	prompts   []string
	embedding []float32
	// cancel, when set, is called during generation to simulate a shutdown
	// arriving mid-request.
	cancel func()
}

func (g *stubGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if g.embedErr != nil {
		return nil, g.embedErr
	}
	if g.embedding != nil {
		return g.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (g *stubGemini) GenerateJSON(_ context.Context, prompt string, _ float32) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.cancel != nil {
		g.cancel()
	}
	return g.response, g.err
}

func (g *stubGemini) GenerateJSONWithRetry(ctx context.Context, prompt string, t float32) (string, error) {
	return g.GenerateJSON(ctx, prompt, t)
}

type stubIndex struct {
	chunks  map[string][]string
	deleted []string
	hits    []SearchResult
	err     error
}

func newStubIndex() *stubIndex {
	return &stubIndex{chunks: make(map[string][]string)}
}

func (i *stubIndex) InitCollection(context.Context) error { return nil }

func (i *stubIndex) UpsertChunk(_ context.Context, uploadID string, _ int, text string, _ []float32) error {
	if i.err != nil {
		return i.err
	}
	i.chunks[uploadID] = append(i.chunks[uploadID], text)
	return nil
}

func (i *stubIndex) Search(context.Context, []float32, int) ([]SearchResult, error) {
	return i.hits, i.err
}

func (i *stubIndex) DeleteUpload(_ context.Context, uploadID string) error {
	i.deleted = append(i.deleted, uploadID)
	delete(i.chunks, uploadID)
	return nil
}

type recordingQueue struct {
	ids []uuid.UUID
}

func (q *recordingQueue) Enqueue(id uuid.UUID) bool {
	q.ids = append(q.ids, id)
	return true
}

var errBoom = errors.New("boom")
