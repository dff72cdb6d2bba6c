package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/config"
	"recruitdesk/cv-intake/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	// Enqueue reports false when the upload could not be queued; the
	// pending poller picks it up later.
	Enqueue(uploadID uuid.UUID) bool
}

type worker struct {
	repo         repositories.CVUploadRepository
	processor    ProcessorService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	log          *zap.Logger
}

func NewWorker(
	repo repositories.CVUploadRepository,
	processor ProcessorService,
	cfg config.WorkerConfig,
	log *zap.Logger,
) Worker {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 100
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 15 * time.Minute
	}

	return &worker{
		repo:         repo,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
		log:          log.Named("worker"),
	}
}

func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPending(ctx)
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("🛑 stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("✅ worker stopped")
	})
}

// Enqueue never blocks the request path.
func (w *worker) Enqueue(uploadID uuid.UUID) bool {
	select {
	case <-w.stopChan:
		w.log.Warn("⚠️ worker stopped, cannot enqueue", zap.Stringer("upload_id", uploadID))
		return false
	default:
	}

	select {
	case w.jobQueue <- uploadID:
		w.log.Debug("📥 upload enqueued", zap.Stringer("upload_id", uploadID))
		return true
	default:
		w.log.Warn("⚠️ queue full, leaving upload for the poller", zap.Stringer("upload_id", uploadID))
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.jobQueue:
			if err := w.processor.ProcessUpload(ctx, id); err != nil {
				log.Error("❌ failed to process upload", zap.Stringer("upload_id", id), zap.Error(err))
			}
		}
	}
}

func (w *worker) pollPending(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.resetStale(ctx)

			pending, err := w.repo.FindPending(ctx, 10)
			if err != nil {
				w.log.Warn("⚠️ failed to fetch pending uploads", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("📋 found pending uploads", zap.Int("count", len(pending)))
			}

			for _, upload := range pending {
				w.Enqueue(upload.ID)
			}
		}
	}
}

// resetStale returns uploads abandoned in processing, e.g. by a crashed
// instance, to pending so the poller picks them up again.
func (w *worker) resetStale(ctx context.Context) {
	n, err := w.repo.ResetStaleProcessing(ctx, time.Now().UTC().Add(-w.staleAfter))
	if err != nil {
		w.log.Warn("⚠️ failed to reset stale uploads", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("♻️ reset stale uploads", zap.Int64("count", n))
	}
}
