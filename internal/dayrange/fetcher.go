package dayrange

import (
	"context"

	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/models"
)

// Source is the pair of remote query endpoints. Both return a raw body in
// one of the shapes accepted by Normalize.
type Source interface {
	// CandidatesByRange queries the half-open interval [from, to).
	CandidatesByRange(ctx context.Context, from, to string) ([]byte, error)
	CandidatesByDate(ctx context.Context, date string) ([]byte, error)
}

// Outcome says which call, if any, produced the candidates.
type Outcome string

const (
	OutcomeRange  Outcome = "range"
	OutcomeDay    Outcome = "day"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// Result is never accompanied by an error: remote failures are recorded
// here and the candidate list is empty when nothing could be fetched.
type Result struct {
	Candidates []models.CandidateRow
	Outcome    Outcome
	RangeErr   error
	DayErr     error
}

type Fetcher struct {
	source Source
	logger *zap.Logger
}

func NewFetcher(source Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{source: source, logger: logger}
}

// FetchDay asks the range endpoint for [day, day+1) first. If that fails or
// yields nothing it asks the single-day endpoint. The two calls are
// sequential and neither is retried.
func (f *Fetcher) FetchDay(ctx context.Context, day string) Result {
	next, err := NextDay(day)
	if err != nil {
		f.logger.Warn("invalid day", zap.String("day", day), zap.Error(err))
		return Result{Candidates: []models.CandidateRow{}, Outcome: OutcomeFailed, RangeErr: err}
	}

	var res Result

	rows, err := f.fetchRange(ctx, day, next)
	if err != nil {
		// Auth errors fall back too; the day endpoint may still answer.
		f.logger.Warn("range query failed, falling back to single day",
			zap.String("from", day), zap.String("to", next), zap.Error(err))
		res.RangeErr = err
	} else if len(rows) > 0 {
		res.Candidates = rows
		res.Outcome = OutcomeRange
		return res
	}

	rows, err = f.fetchDate(ctx, day)
	if err != nil {
		f.logger.Warn("single day query failed", zap.String("date", day), zap.Error(err))
		res.DayErr = err
		res.Candidates = []models.CandidateRow{}
		if res.RangeErr != nil {
			res.Outcome = OutcomeFailed
		} else {
			res.Outcome = OutcomeEmpty
		}
		return res
	}

	res.Candidates = rows
	if len(rows) > 0 {
		res.Outcome = OutcomeDay
	} else {
		res.Outcome = OutcomeEmpty
	}
	return res
}

// FetchRange fetches an inclusive day range. A single day behaves exactly
// like FetchDay; longer ranges use one range call with no fallback.
func (f *Fetcher) FetchRange(ctx context.Context, from, toInclusive string) Result {
	if from == toInclusive {
		return f.FetchDay(ctx, from)
	}

	start, end, err := RangeBounds(from, toInclusive)
	if err != nil {
		f.logger.Warn("invalid range", zap.String("from", from), zap.String("to", toInclusive), zap.Error(err))
		return Result{Candidates: []models.CandidateRow{}, Outcome: OutcomeFailed, RangeErr: err}
	}

	rows, err := f.fetchRange(ctx, start, end)
	if err != nil {
		f.logger.Warn("range query failed", zap.String("from", start), zap.String("to", end), zap.Error(err))
		return Result{Candidates: []models.CandidateRow{}, Outcome: OutcomeFailed, RangeErr: err}
	}
	if len(rows) == 0 {
		return Result{Candidates: rows, Outcome: OutcomeEmpty}
	}
	return Result{Candidates: rows, Outcome: OutcomeRange}
}

func (f *Fetcher) fetchRange(ctx context.Context, from, to string) ([]models.CandidateRow, error) {
	body, err := f.source.CandidatesByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return Normalize(body)
}

func (f *Fetcher) fetchDate(ctx context.Context, date string) ([]models.CandidateRow, error) {
	body, err := f.source.CandidatesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return Normalize(body)
}
