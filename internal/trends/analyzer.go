// Package trends derives improving/declining/consistent/turnaround signals
// from the persisted score history.
package trends

import (
	"context"
	"sort"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgcache "FinSight/pkg/cache"
	applogger "FinSight/pkg/logger"
)

const (
	// DefaultHistoryYears bounds how far back the scan-style queries look.
	DefaultHistoryYears = 5

	// PeriodAnnual and PeriodQuarterly select which record kind a history
	// query returns.
	PeriodAnnual    = "FY"
	PeriodQuarterly = "Q"
)

// Analyzer answers trend queries over a ScoreHistoryStore. Read-only; every
// result is recomputed on demand from the store.
type Analyzer struct {
	store    domrepo.ScoreHistoryStore
	cache    pkgcache.Service
	cacheTTL time.Duration
	l        *applogger.Logger
	now      func() time.Time
}

func NewAnalyzer(store domrepo.ScoreHistoryStore) *Analyzer {
	return &Analyzer{store: store, now: time.Now}
}

// SetLogger injects a structured logger.
func (a *Analyzer) SetLogger(l *applogger.Logger) { a.l = l }

// SetClock overrides the wall clock for the trailing-years window.
func (a *Analyzer) SetClock(now func() time.Time) { a.now = now }

// SetHistoryCache fronts history reads with a cache. The mover/turnaround
// scans issue one history query per ticker, so a short TTL takes most of
// that load off the store.
func (a *Analyzer) SetHistoryCache(c pkgcache.Service, ttl time.Duration) {
	a.cache = c
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	a.cacheTTL = ttl
}

// GetScoreHistory returns the ticker's records within the trailing years
// window, oldest to newest. Records without fiscal identity are skipped; an
// empty history is not an error.
func (a *Analyzer) GetScoreHistory(ctx context.Context, ticker string, years int, periodType string) ([]models.ScoreHistoryRecord, error) {
	if years <= 0 {
		years = DefaultHistoryYears
	}
	if periodType == "" {
		periodType = PeriodAnnual
	}
	minYear := a.now().UTC().Year() - years

	var key string
	if a.cache != nil {
		key = pkgcache.GenerateKeyWithParams("score_history", ticker, minYear, periodType)
		var cached []models.ScoreHistoryRecord
		if err := a.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	recs, err := a.store.History(ctx, ticker, minYear, periodType)
	if err != nil {
		return nil, err
	}
	valid := recs[:0]
	for _, r := range recs {
		if r.Valid() {
			valid = append(valid, r)
		}
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, valid, a.cacheTTL); err != nil && a.l != nil {
			a.l.Debug("history cache set failed",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
	}
	return valid, nil
}

// CalculateTrend compares the oldest and newest of the most recent periods
// records. Returns nil without error when fewer than 2 valid records exist:
// no delta is computable.
func (a *Analyzer) CalculateTrend(ctx context.Context, ticker string, periods int) (*models.TrendResult, error) {
	if periods < 2 {
		periods = 2
	}
	history, err := a.GetScoreHistory(ctx, ticker, periods+1, PeriodAnnual)
	if err != nil {
		return nil, err
	}
	if len(history) < 2 {
		return nil, nil
	}

	window := history
	if len(window) > periods {
		window = window[len(window)-periods:]
	}
	first, last := window[0], window[len(window)-1]

	fscoreChange := last.PiotroskiScore - first.PiotroskiScore
	direction := models.TrendStable
	if fscoreChange > 0 {
		direction = models.TrendImproving
	} else if fscoreChange < 0 {
		direction = models.TrendDeclining
	}

	return &models.TrendResult{
		Ticker:          ticker,
		TrendDirection:  direction,
		CurrentFScore:   last.PiotroskiScore,
		PreviousFScore:  first.PiotroskiScore,
		FScoreChange:    fscoreChange,
		CurrentZScore:   last.AltmanZScore,
		PreviousZScore:  first.AltmanZScore,
		ZScoreChange:    last.AltmanZScore - first.AltmanZScore,
		CurrentZone:     last.AltmanZone,
		PreviousZone:    first.AltmanZone,
		ZoneChanged:     last.AltmanZone != first.AltmanZone,
		PeriodsAnalyzed: len(window),
	}, nil
}

// FindImproving scans all tickers with history and retains those whose
// F-Score rose by at least minImprovement over the window, ordered by
// improvement descending, truncated to limit.
func (a *Analyzer) FindImproving(ctx context.Context, minImprovement, periods, limit int) ([]models.TrendResult, error) {
	return a.findMovers(ctx, periods, limit, func(t *models.TrendResult) bool {
		return t.FScoreChange >= minImprovement
	}, func(x, y models.TrendResult) bool {
		return x.FScoreChange > y.FScoreChange
	})
}

// FindDeclining is the symmetric scan for F-Score drops of at least
// minDecline (a positive number), ordered most negative first.
func (a *Analyzer) FindDeclining(ctx context.Context, minDecline, periods, limit int) ([]models.TrendResult, error) {
	return a.findMovers(ctx, periods, limit, func(t *models.TrendResult) bool {
		return t.FScoreChange <= -minDecline
	}, func(x, y models.TrendResult) bool {
		return x.FScoreChange < y.FScoreChange
	})
}

func (a *Analyzer) findMovers(ctx context.Context, periods, limit int, keep func(*models.TrendResult) bool, less func(x, y models.TrendResult) bool) ([]models.TrendResult, error) {
	tickers, err := a.store.Tickers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.TrendResult, 0, len(tickers))
	for _, ticker := range tickers {
		trend, err := a.CalculateTrend(ctx, ticker, periods)
		if err != nil {
			if a.l != nil {
				a.l.Warn("trend scan skipping ticker",
					applogger.String("ticker", ticker), applogger.Error(err))
			}
			continue
		}
		if trend != nil && keep(trend) {
			results = append(results, *trend)
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
	return truncate(results, limit), nil
}

// FindConsistent scans for tickers whose F-Score stayed at or above minScore
// in each of their last periods records. Tickers with a shorter history are
// skipped. Ordered by streak length then average F-Score, both descending.
func (a *Analyzer) FindConsistent(ctx context.Context, minScore, periods, limit int) ([]models.ConsistentPerformer, error) {
	if periods < 2 {
		periods = 2
	}
	tickers, err := a.store.Tickers(ctx)
	if err != nil {
		return nil, err
	}

	var results []models.ConsistentPerformer
	for _, ticker := range tickers {
		history, err := a.GetScoreHistory(ctx, ticker, periods+1, PeriodAnnual)
		if err != nil {
			if a.l != nil {
				a.l.Warn("consistency scan skipping ticker",
					applogger.String("ticker", ticker), applogger.Error(err))
			}
			continue
		}
		if p := consistentPerformer(ticker, history, minScore, periods); p != nil {
			results = append(results, *p)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ConsecutivePeriods != results[j].ConsecutivePeriods {
			return results[i].ConsecutivePeriods > results[j].ConsecutivePeriods
		}
		return results[i].AverageFScore > results[j].AverageFScore
	})
	return truncate(results, limit), nil
}

// consistentPerformer checks the last periods records of a history ordered
// oldest to newest. One sub-threshold period disqualifies the ticker.
func consistentPerformer(ticker string, history []models.ScoreHistoryRecord, minScore, periods int) *models.ConsistentPerformer {
	if len(history) < periods {
		return nil
	}
	window := history[len(history)-periods:]

	sum := 0
	lo, hi := window[0].PiotroskiScore, window[0].PiotroskiScore
	for _, r := range window {
		if r.PiotroskiScore < minScore {
			return nil
		}
		sum += r.PiotroskiScore
		if r.PiotroskiScore < lo {
			lo = r.PiotroskiScore
		}
		if r.PiotroskiScore > hi {
			hi = r.PiotroskiScore
		}
	}

	latest := window[len(window)-1]
	return &models.ConsistentPerformer{
		Ticker:             ticker,
		AverageFScore:      float64(sum) / float64(len(window)),
		MinFScore:          lo,
		MaxFScore:          hi,
		CurrentFScore:      latest.PiotroskiScore,
		CurrentZScore:      latest.AltmanZScore,
		CurrentZone:        latest.AltmanZone,
		ConsecutivePeriods: len(window),
	}
}

// FindTurnarounds scans for tickers whose Altman zone moved from Distress to
// Grey or Safe between consecutive recorded periods and whose latest zone is
// no longer Distress. Ordered by Z-Score improvement at the transition,
// descending.
func (a *Analyzer) FindTurnarounds(ctx context.Context, limit int) ([]models.TurnaroundCandidate, error) {
	tickers, err := a.store.Tickers(ctx)
	if err != nil {
		return nil, err
	}

	var results []models.TurnaroundCandidate
	for _, ticker := range tickers {
		history, err := a.GetScoreHistory(ctx, ticker, DefaultHistoryYears, PeriodAnnual)
		if err != nil {
			if a.l != nil {
				a.l.Warn("turnaround scan skipping ticker",
					applogger.String("ticker", ticker), applogger.Error(err))
			}
			continue
		}
		if c := latestTurnaround(ticker, history); c != nil {
			results = append(results, *c)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ZScoreImprovement > results[j].ZScoreImprovement
	})
	return truncate(results, limit), nil
}

// latestTurnaround finds the most recent consecutive Distress -> Grey/Safe
// transition in a history ordered oldest to newest. Tickers still in
// Distress never qualify.
func latestTurnaround(ticker string, history []models.ScoreHistoryRecord) *models.TurnaroundCandidate {
	if len(history) < 2 {
		return nil
	}
	latest := history[len(history)-1]
	if latest.AltmanZone == models.ZoneDistress {
		return nil
	}

	for i := len(history) - 1; i >= 1; i-- {
		older, newer := history[i-1], history[i]
		if older.AltmanZone != models.ZoneDistress || newer.AltmanZone == models.ZoneDistress {
			continue
		}
		return &models.TurnaroundCandidate{
			Ticker:               ticker,
			PreviousZone:         older.AltmanZone,
			CurrentZone:          latest.AltmanZone,
			PreviousZScore:       older.AltmanZScore,
			CurrentZScore:        latest.AltmanZScore,
			ZScoreImprovement:    newer.AltmanZScore - older.AltmanZScore,
			CurrentFScore:        latest.PiotroskiScore,
			PeriodsSinceDistress: len(history) - i,
		}
	}
	return nil
}

func truncate[T any](xs []T, limit int) []T {
	if limit > 0 && len(xs) > limit {
		return xs[:limit]
	}
	return xs
}
