package repository

import (
	"context"

	"FinSight/internal/domain/models"
)

// ScoreHistoryStore persists and serves per-ticker score records. History
// returns records for one ticker with fiscal_year >= minYear, ordered oldest
// to newest; periodType is "FY" for annual or "Q" for quarterly records.
type ScoreHistoryStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Save(ctx context.Context, rec models.ScoreHistoryRecord) error
	SaveBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error
	History(ctx context.Context, ticker string, minYear int, periodType string) ([]models.ScoreHistoryRecord, error)
	Tickers(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// ScorePublisher emits freshly computed score records for downstream
// consumers (screeners, alerting).
type ScorePublisher interface {
	Publish(ctx context.Context, rec models.ScoreHistoryRecord) error
	PublishBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error
	Close() error
}

type Metrics interface {
	RecordScoreComputed(model, ticker string)
	RecordError(kind string)
	RecordLastFScore(ticker string, score float64)
	RecordLatency(op string, seconds float64)
}
