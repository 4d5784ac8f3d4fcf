package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"FinSight/internal/domain/models"
)

func factsMessage() []byte {
	return []byte(`{
		"ticker": "ACME",
		"fiscal_year": 2024,
		"fiscal_period": "FY",
		"formula": "manufacturing",
		"current": {
			"revenue": 1000, "gross_profit": 500, "net_income": 100,
			"ebit": 150, "total_assets": 1000, "total_liabilities": 600,
			"current_assets": 500, "current_liabilities": 200,
			"long_term_debt": 100, "retained_earnings": 300,
			"shares_outstanding": 100, "market_cap": 800,
			"operating_cash_flow": 150
		},
		"prior": {
			"revenue": 900, "gross_profit": 400, "net_income": 50,
			"total_assets": 1000, "current_assets": 400,
			"current_liabilities": 200, "long_term_debt": 150,
			"shares_outstanding": 100, "operating_cash_flow": 80
		}
	}`)
}

func TestFactsHandlerScoresAndStores(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewScoreService(store, nil, newFakeMetrics())
	h := NewKafkaFactsHandler("financial.facts", svc, newFakeMetrics())

	if h.Topic() != "financial.facts" {
		t.Fatalf("unexpected topic %q", h.Topic())
	}
	if err := h.Handle(context.Background(), factsMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 record stored, got %d", len(store.saved))
	}
	rec := store.saved[0]
	if rec.Ticker != "ACME" || rec.FiscalYear != 2024 || rec.FiscalPeriod != "FY" {
		t.Fatalf("unexpected record identity %+v", rec)
	}
	if rec.AltmanFormula != models.FormulaManufacturing {
		t.Fatalf("unexpected formula %q", rec.AltmanFormula)
	}
}

func TestFactsHandlerRejectsMalformed(t *testing.T) {
	svc := NewScoreService(&fakeHistoryStore{}, nil, newFakeMetrics())
	metrics := newFakeMetrics()
	h := NewKafkaFactsHandler("financial.facts", svc, metrics)

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if err := h.Handle(context.Background(), []byte(`{"fiscal_year": 2024}`)); err == nil {
		t.Fatalf("expected error for missing ticker")
	}
	if metrics.errors["consumer_unmarshal"] != 1 || metrics.errors["consumer_invalid"] != 1 {
		t.Fatalf("expected error metrics, got %v", metrics.errors)
	}
}

func TestFactsHandlerNormalizesPeriodLabel(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewScoreService(store, nil, newFakeMetrics())
	h := NewKafkaFactsHandler("financial.facts", svc, newFakeMetrics())

	msg := bytes.Replace(factsMessage(),
		[]byte(`"fiscal_period": "FY"`), []byte(`"fiscal_period": "annual"`), 1)

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].FiscalPeriod != "FY" {
		t.Fatalf("expected normalized FY period, got %+v", store.saved)
	}
}

func TestFactsHandlerUsesUpstreamEventTime(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewScoreService(store, nil, newFakeMetrics())
	h := NewKafkaFactsHandler("financial.facts", svc, newFakeMetrics())

	msg := bytes.Replace(factsMessage(),
		[]byte(`"ticker": "ACME",`),
		[]byte(`"ticker": "ACME", "as_of": "2024-03-31T00:00:00Z",`), 1)

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 record stored, got %d", len(store.saved))
	}
	want := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if !store.saved[0].RecordedAt.Equal(want) {
		t.Fatalf("RecordedAt = %v, want %v", store.saved[0].RecordedAt, want)
	}
}

func TestFactsHandlerDropsInsufficientData(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewScoreService(store, nil, newFakeMetrics())
	metrics := newFakeMetrics()
	h := NewKafkaFactsHandler("financial.facts", svc, metrics)

	// A sparse filing can never score; retrying the same payload cannot help,
	// so the handler acks it instead of cycling through the DLQ.
	msg := []byte(`{"ticker": "SPARSE", "fiscal_year": 2024, "current": {"net_income": 10}, "prior": {}}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error for unscorable filing, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(store.saved))
	}
	if metrics.errors["consumer_insufficient_data"] != 1 {
		t.Fatalf("expected insufficient-data metric, got %v", metrics.errors)
	}
}

type recordedFact struct {
	ticker  string
	formula models.Formula
	period  models.FinancialPeriod
}

type fakeFactsRecorder struct {
	facts []recordedFact
}

func (f *fakeFactsRecorder) SaveFact(ctx context.Context, ticker string, formula models.Formula, p models.FinancialPeriod) error {
	f.facts = append(f.facts, recordedFact{ticker: ticker, formula: formula, period: p})
	return nil
}

func TestFactsHandlerPersistsRawFacts(t *testing.T) {
	svc := NewScoreService(&fakeHistoryStore{}, nil, newFakeMetrics())
	h := NewKafkaFactsHandler("financial.facts", svc, newFakeMetrics())
	recorder := &fakeFactsRecorder{}
	h.SetFactsRecorder(recorder)

	if err := h.Handle(context.Background(), factsMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorder.facts) != 1 {
		t.Fatalf("expected 1 raw fact saved, got %d", len(recorder.facts))
	}
	fact := recorder.facts[0]
	if fact.ticker != "ACME" || fact.period.FiscalYear != 2024 {
		t.Fatalf("unexpected fact %+v", fact)
	}
	if fact.period.Revenue == nil || *fact.period.Revenue != 1000 {
		t.Fatalf("expected revenue carried through, got %v", fact.period.Revenue)
	}
}
