package usecase

import (
	"context"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	"FinSight/internal/scoring"
	applogger "FinSight/pkg/logger"
)

// ScoreService runs both calculators for a ticker's period pair, persists the
// resulting history record, and publishes it for downstream consumers.
type ScoreService struct {
	piotroski *scoring.PiotroskiScorer
	altman    *scoring.AltmanScorer
	store     drepo.ScoreHistoryStore
	pub       drepo.ScorePublisher
	metrics   drepo.Metrics
	l         *applogger.Logger
}

func NewScoreService(
	store drepo.ScoreHistoryStore,
	pub drepo.ScorePublisher,
	metrics drepo.Metrics,
) *ScoreService {
	return &ScoreService{
		piotroski: scoring.NewPiotroskiScorer(),
		altman:    scoring.NewAltmanScorer(),
		store:     store,
		pub:       pub,
		metrics:   metrics,
	}
}

// SetLogger injects a structured logger.
func (s *ScoreService) SetLogger(l *applogger.Logger) { s.l = l }

// ComputeAndStore scores one ticker and persists the record. The F-Score is
// mandatory: insufficient Piotroski coverage surfaces as
// scoring.InsufficientDataError for the caller to render as no-data. The
// Z-Score degrades to a zero score with empty zone when nothing was
// computable, which downstream zone logic simply never matches.
func (s *ScoreService) ComputeAndStore(ctx context.Context, ticker string, current, prior models.FinancialPeriod, formula models.Formula) (models.ScoreHistoryRecord, error) {
	return s.ComputeAndStoreAt(ctx, ticker, current, prior, formula, time.Now().UTC())
}

// ComputeAndStoreAt is ComputeAndStore with an explicit record timestamp.
// Feed consumers pass the upstream event time so replays produce identical
// rows and the ReplacingMergeTree version stays deterministic.
func (s *ScoreService) ComputeAndStoreAt(ctx context.Context, ticker string, current, prior models.FinancialPeriod, formula models.Formula, at time.Time) (models.ScoreHistoryRecord, error) {
	start := time.Now()

	pr, err := s.piotroski.Calculate(current, prior)
	if err != nil {
		s.metrics.RecordError("piotroski")
		return models.ScoreHistoryRecord{}, fmt.Errorf("piotroski %s: %w", ticker, err)
	}
	s.metrics.RecordScoreComputed("piotroski", ticker)
	s.metrics.RecordLastFScore(ticker, float64(pr.Score))

	ar, err := s.altman.Calculate(current, formula, false)
	if err != nil {
		// requireAll is false here, so this is unexpected.
		s.metrics.RecordError("altman")
		return models.ScoreHistoryRecord{}, fmt.Errorf("altman %s: %w", ticker, err)
	}
	s.metrics.RecordScoreComputed("altman", ticker)

	rec := models.ScoreHistoryRecord{
		Ticker:                 ticker,
		FiscalYear:             current.FiscalYear,
		FiscalPeriod:           current.FiscalPeriod,
		PiotroskiScore:         pr.Score,
		PiotroskiProfitability: pr.ProfitabilityScore,
		PiotroskiLeverage:      pr.LeverageScore,
		PiotroskiEfficiency:    pr.EfficiencyScore,
		AltmanZone:             ar.Zone,
		AltmanFormula:          ar.FormulaUsed,
		RecordedAt:             at.UTC(),
	}
	if rec.FiscalPeriod == "" {
		rec.FiscalPeriod = "FY"
	}
	if ar.ZScore != nil {
		rec.AltmanZScore = *ar.ZScore
	}

	if err := s.store.Save(ctx, rec); err != nil {
		s.metrics.RecordError("store")
		return models.ScoreHistoryRecord{}, fmt.Errorf("store score %s: %w", ticker, err)
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, rec); err != nil {
			// Publishing is best-effort; the record is already durable.
			s.metrics.RecordError("publish")
			if s.l != nil {
				s.l.Warn("score publish failed",
					applogger.String("ticker", ticker), applogger.Error(err))
			}
		}
	}

	s.metrics.RecordLatency("score_ticker", time.Since(start).Seconds())
	if s.l != nil {
		s.l.Info("ticker scored",
			applogger.String("ticker", ticker),
			applogger.Int("fscore", pr.Score),
			applogger.Int("signals_available", pr.SignalsAvailable),
			applogger.String("zone", string(ar.Zone)),
			applogger.Bool("approximate", ar.IsApproximate),
		)
	}
	return rec, nil
}
