package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"FinSight/internal/domain/models"
)

// fakeHistoryStore records saves in memory.
type fakeHistoryStore struct {
	mu    sync.Mutex
	saved []models.ScoreHistoryRecord
}

func (f *fakeHistoryStore) Init(ctx context.Context) error { return nil }

func (f *fakeHistoryStore) Save(ctx context.Context, rec models.ScoreHistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeHistoryStore) SaveBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error {
	for _, r := range recs {
		if err := f.Save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeHistoryStore) History(ctx context.Context, ticker string, minYear int, periodType string) ([]models.ScoreHistoryRecord, error) {
	return nil, nil
}

func (f *fakeHistoryStore) Tickers(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeHistoryStore) Health(ctx context.Context) error              { return nil }
func (f *fakeHistoryStore) Close() error                                  { return nil }

// fakeMetrics counts calls by kind.
type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (f *fakeMetrics) RecordScoreComputed(model, ticker string)    {}
func (f *fakeMetrics) RecordLastFScore(ticker string, score float64) {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)    {}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[kind]++
}

// fakeSource maps tickers to canned outcomes.
type fakeSource struct{}

func (fakeSource) Periods(ctx context.Context, ticker string) (models.FinancialPeriod, models.FinancialPeriod, error) {
	switch ticker {
	case "ERR":
		return models.FinancialPeriod{}, models.FinancialPeriod{}, fmt.Errorf("upstream unavailable")
	case "SPARSE":
		// Not enough figures for minimum signal coverage.
		return models.FinancialPeriod{NetIncome: models.Float(10)}, models.FinancialPeriod{}, nil
	default:
		return fullPeriod(2024), fullPeriod(2023), nil
	}
}

func fullPeriod(year int) models.FinancialPeriod {
	scale := float64(year - 2000)
	return models.FinancialPeriod{
		Revenue:            models.Float(1000 + scale),
		GrossProfit:        models.Float(500 + scale),
		NetIncome:          models.Float(100 + scale),
		EBIT:               models.Float(150),
		TotalAssets:        models.Float(1000),
		TotalLiabilities:   models.Float(600),
		CurrentAssets:      models.Float(400 + scale),
		CurrentLiabilities: models.Float(200),
		LongTermDebt:       models.Float(150 - scale),
		RetainedEarnings:   models.Float(300),
		SharesOutstanding:  models.Float(100),
		MarketCap:          models.Float(800),
		OperatingCashFlow:  models.Float(150 + scale),
		FiscalYear:         year,
		FiscalPeriod:       "FY",
	}
}

func newTestRefresher(store *fakeHistoryStore, metrics *fakeMetrics) *ScoreRefresher {
	svc := NewScoreService(store, nil, metrics)
	return NewScoreRefresher(svc, fakeSource{}, nil, metrics, 2, 100, 100)
}

func TestRefreshCountsOutcomes(t *testing.T) {
	store := &fakeHistoryStore{}
	metrics := newFakeMetrics()
	r := newTestRefresher(store, metrics)

	summary := r.Refresh(context.Background(), []string{"GOOD", "SPARSE", "ERR"})
	if summary.Requested != 3 {
		t.Fatalf("expected 3 requested, got %d", summary.Requested)
	}
	if summary.Scored != 1 {
		t.Fatalf("expected 1 scored, got %d", summary.Scored)
	}
	if summary.NoData != 1 {
		t.Fatalf("expected 1 no-data, got %d", summary.NoData)
	}
	if summary.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", summary.Failed)
	}
	if len(store.saved) != 1 || store.saved[0].Ticker != "GOOD" {
		t.Fatalf("expected one saved record for GOOD, got %v", store.saved)
	}
}

func TestRefreshEmptyBatch(t *testing.T) {
	r := newTestRefresher(&fakeHistoryStore{}, newFakeMetrics())

	summary := r.Refresh(context.Background(), nil)
	if summary != (RefreshSummary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestRefreshCancelledContext(t *testing.T) {
	r := newTestRefresher(&fakeHistoryStore{}, newFakeMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tickers := []string{"A", "B", "C", "D"}
	summary := r.Refresh(ctx, tickers)
	if summary.Requested != 4 {
		t.Fatalf("expected 4 requested, got %d", summary.Requested)
	}
	if summary.Scored+summary.NoData+summary.Failed != 4 {
		t.Fatalf("every ticker must be accounted for, got %+v", summary)
	}
}

func TestComputeAndStoreRecord(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewScoreService(store, nil, newFakeMetrics())

	rec, err := svc.ComputeAndStore(context.Background(), "ACME", fullPeriod(2024), fullPeriod(2023), models.FormulaManufacturing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Ticker != "ACME" || rec.FiscalYear != 2024 || rec.FiscalPeriod != "FY" {
		t.Fatalf("unexpected record identity %+v", rec)
	}
	if rec.PiotroskiScore != rec.PiotroskiProfitability+rec.PiotroskiLeverage+rec.PiotroskiEfficiency {
		t.Fatalf("bucket sum mismatch in %+v", rec)
	}
	if rec.AltmanZone == "" {
		t.Fatalf("expected a zone for a fully populated period")
	}
	if rec.RecordedAt.IsZero() {
		t.Fatalf("expected recorded_at to be set")
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected the record persisted, got %d saves", len(store.saved))
	}
}

func TestComputeAndStoreInsufficientData(t *testing.T) {
	svc := NewScoreService(&fakeHistoryStore{}, nil, newFakeMetrics())

	_, err := svc.ComputeAndStore(context.Background(), "EMPTY",
		models.FinancialPeriod{}, models.FinancialPeriod{}, models.FormulaManufacturing)
	if err == nil {
		t.Fatalf("expected error for empty statements")
	}
}
