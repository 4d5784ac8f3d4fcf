package usecase

import (
	"context"
	"sync"
	"time"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/scoring"
	"FinSight/internal/service/ratelimit"
	applogger "FinSight/pkg/logger"
)

// RefreshSummary reports the outcome of one batch refresh.
type RefreshSummary struct {
	Requested int `json:"requested"`
	Scored    int `json:"scored"`
	NoData    int `json:"no_data"`
	Failed    int `json:"failed"`
}

// ScoreRefresher runs the batch "refresh scores" flow. Ticker scoring is
// independent per ticker, so the work fans out over a bounded worker pool;
// the only coupling is the upstream data source's rate limit, enforced with
// a shared token bucket.
type ScoreRefresher struct {
	svc        *ScoreService
	source     domsvc.FinancialDataSource
	classifier domsvc.IndustryClassifier
	limiter    *ratelimit.Limiter
	metrics    drepo.Metrics
	l          *applogger.Logger

	workers      int
	rateCapacity float64
	rateRefill   float64
}

func NewScoreRefresher(
	svc *ScoreService,
	source domsvc.FinancialDataSource,
	classifier domsvc.IndustryClassifier,
	metrics drepo.Metrics,
	workers int,
	rateCapacity, rateRefillPerSec float64,
) *ScoreRefresher {
	if workers <= 0 {
		workers = 4
	}
	if rateCapacity <= 0 {
		rateCapacity = 10
	}
	if rateRefillPerSec <= 0 {
		rateRefillPerSec = 10
	}
	return &ScoreRefresher{
		svc:          svc,
		source:       source,
		classifier:   classifier,
		limiter:      ratelimit.New(),
		metrics:      metrics,
		workers:      workers,
		rateCapacity: rateCapacity,
		rateRefill:   rateRefillPerSec,
	}
}

// SetLogger injects a structured logger.
func (r *ScoreRefresher) SetLogger(l *applogger.Logger) { r.l = l }

// Refresh scores every ticker in the list. Insufficient data is an expected
// per-ticker outcome and counted, not propagated; only context cancellation
// aborts the batch.
func (r *ScoreRefresher) Refresh(ctx context.Context, tickers []string) RefreshSummary {
	start := time.Now()
	summary := RefreshSummary{Requested: len(tickers)}
	if len(tickers) == 0 {
		return summary
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan string)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range work {
				outcome := r.refreshOne(ctx, ticker)
				mu.Lock()
				switch outcome {
				case outcomeScored:
					summary.Scored++
				case outcomeNoData:
					summary.NoData++
				default:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, ticker := range tickers {
		select {
		case work <- ticker:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			// Undispatched tickers count as failed.
			summary.Failed = summary.Requested - summary.Scored - summary.NoData
			return summary
		}
	}
	close(work)
	wg.Wait()

	r.metrics.RecordLatency("refresh_batch", time.Since(start).Seconds())
	if r.l != nil {
		r.l.Info("score refresh finished",
			applogger.Int("requested", summary.Requested),
			applogger.Int("scored", summary.Scored),
			applogger.Int("no_data", summary.NoData),
			applogger.Int("failed", summary.Failed),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return summary
}

type refreshOutcome int

const (
	outcomeScored refreshOutcome = iota
	outcomeNoData
	outcomeFailed
)

func (r *ScoreRefresher) refreshOne(ctx context.Context, ticker string) refreshOutcome {
	if !r.waitForToken(ctx) {
		return outcomeFailed
	}

	current, prior, err := r.source.Periods(ctx, ticker)
	if err != nil {
		r.metrics.RecordError("datasource")
		if r.l != nil {
			r.l.Warn("fetch periods failed",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
		return outcomeFailed
	}

	formula := models.FormulaManufacturing
	if r.classifier != nil {
		if f, err := r.classifier.Classify(ctx, ticker); err == nil {
			formula = f
		}
	}

	if _, err := r.svc.ComputeAndStore(ctx, ticker, current, prior, formula); err != nil {
		if scoring.IsInsufficientData(err) {
			return outcomeNoData
		}
		return outcomeFailed
	}
	return outcomeScored
}

// waitForToken blocks until the upstream rate limit admits one call or the
// context is cancelled.
func (r *ScoreRefresher) waitForToken(ctx context.Context) bool {
	for !r.limiter.Allow("datasource", r.rateCapacity, r.rateRefill) {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return false
		}
	}
	return true
}
