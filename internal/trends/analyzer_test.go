package trends

import (
	"context"
	"sort"
	"testing"
	"time"

	"FinSight/internal/domain/models"
)

// fakeStore is an in-memory ScoreHistoryStore for analyzer tests.
type fakeStore struct {
	records map[string][]models.ScoreHistoryRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]models.ScoreHistoryRecord)}
}

func (f *fakeStore) add(recs ...models.ScoreHistoryRecord) {
	for _, r := range recs {
		f.records[r.Ticker] = append(f.records[r.Ticker], r)
	}
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) Save(ctx context.Context, rec models.ScoreHistoryRecord) error {
	f.add(rec)
	return nil
}

func (f *fakeStore) SaveBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error {
	f.add(recs...)
	return nil
}

func (f *fakeStore) History(ctx context.Context, ticker string, minYear int, periodType string) ([]models.ScoreHistoryRecord, error) {
	var out []models.ScoreHistoryRecord
	for _, r := range f.records[ticker] {
		if r.FiscalYear < minYear {
			continue
		}
		annual := r.FiscalPeriod == "FY"
		if (periodType == "Q") == annual {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FiscalYear != out[j].FiscalYear {
			return out[i].FiscalYear < out[j].FiscalYear
		}
		return out[i].FiscalPeriod < out[j].FiscalPeriod
	})
	return out, nil
}

func (f *fakeStore) Tickers(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(f.records))
	for t := range f.records {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

func annual(ticker string, year, fscore int, z float64, zone models.Zone) models.ScoreHistoryRecord {
	return models.ScoreHistoryRecord{
		Ticker:         ticker,
		FiscalYear:     year,
		FiscalPeriod:   "FY",
		PiotroskiScore: fscore,
		AltmanZScore:   z,
		AltmanZone:     zone,
		AltmanFormula:  models.FormulaManufacturing,
		RecordedAt:     time.Date(year+1, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testAnalyzer(store *fakeStore) *Analyzer {
	a := NewAnalyzer(store)
	a.SetClock(func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	})
	return a
}

func TestGetScoreHistorySkipsInvalidRecords(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("ACME", 2022, 5, 2.0, models.ZoneGrey),
		annual("ACME", 2023, 6, 2.5, models.ZoneGrey),
	)
	// Missing fiscal year: present in the store, ignored by the analyzer.
	store.records["ACME"] = append(store.records["ACME"], models.ScoreHistoryRecord{
		Ticker: "ACME", FiscalPeriod: "FY", PiotroskiScore: 9,
	})

	got, err := testAnalyzer(store).GetScoreHistory(context.Background(), "ACME", 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(got))
	}
	if got[0].FiscalYear != 2022 || got[1].FiscalYear != 2023 {
		t.Fatalf("expected oldest-to-newest order, got %d then %d",
			got[0].FiscalYear, got[1].FiscalYear)
	}
}

func TestGetScoreHistoryTrailingWindow(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("OLD", 2015, 4, 1.0, models.ZoneDistress),
		annual("OLD", 2023, 6, 2.5, models.ZoneGrey),
	)

	got, err := testAnalyzer(store).GetScoreHistory(context.Background(), "OLD", 5, PeriodAnnual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FiscalYear != 2023 {
		t.Fatalf("expected only the 2023 record inside the window, got %v", got)
	}
}

func TestCalculateTrendNeedsTwoRecords(t *testing.T) {
	store := newFakeStore()
	store.add(annual("SOLO", 2023, 5, 2.0, models.ZoneGrey))

	trend, err := testAnalyzer(store).CalculateTrend(context.Background(), "SOLO", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trend != nil {
		t.Fatalf("expected nil trend for a single record, got %+v", trend)
	}
}

func TestCalculateTrendDirectionBySign(t *testing.T) {
	cases := []struct {
		name   string
		first  int
		last   int
		want   models.TrendDirection
		change int
	}{
		{"one point up is improving", 5, 6, models.TrendImproving, 1},
		{"one point down is declining", 6, 5, models.TrendDeclining, -1},
		{"no change is stable", 5, 5, models.TrendStable, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := newFakeStore()
			store.add(
				annual("T", 2022, c.first, 2.0, models.ZoneGrey),
				annual("T", 2023, c.last, 2.2, models.ZoneGrey),
			)

			trend, err := testAnalyzer(store).CalculateTrend(context.Background(), "T", 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if trend == nil {
				t.Fatalf("expected a trend")
			}
			if trend.TrendDirection != c.want {
				t.Fatalf("expected %s, got %s", c.want, trend.TrendDirection)
			}
			if trend.FScoreChange != c.change {
				t.Fatalf("expected change %d, got %d", c.change, trend.FScoreChange)
			}
		})
	}
}

func TestCalculateTrendWindowAndPeriodsAnalyzed(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("W", 2021, 2, 1.0, models.ZoneDistress),
		annual("W", 2022, 4, 1.5, models.ZoneDistress),
		annual("W", 2023, 6, 2.0, models.ZoneGrey),
		annual("W", 2024, 8, 3.5, models.ZoneSafe),
	)

	trend, err := testAnalyzer(store).CalculateTrend(context.Background(), "W", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trend == nil {
		t.Fatalf("expected a trend")
	}
	// Window is the most recent 3 records: 2022..2024.
	if trend.PeriodsAnalyzed != 3 {
		t.Fatalf("expected 3 periods analyzed, got %d", trend.PeriodsAnalyzed)
	}
	if trend.PreviousFScore != 4 || trend.CurrentFScore != 8 {
		t.Fatalf("expected 4 -> 8, got %d -> %d", trend.PreviousFScore, trend.CurrentFScore)
	}
	if !trend.ZoneChanged || trend.CurrentZone != models.ZoneSafe {
		t.Fatalf("expected zone change to Safe, got %+v", trend)
	}
}

func TestCalculateTrendPeriodsAnalyzedCappedByHistory(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("C", 2023, 5, 2.0, models.ZoneGrey),
		annual("C", 2024, 7, 3.2, models.ZoneSafe),
	)

	trend, err := testAnalyzer(store).CalculateTrend(context.Background(), "C", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trend == nil || trend.PeriodsAnalyzed != 2 {
		t.Fatalf("expected periods analyzed capped at 2, got %+v", trend)
	}
}

func TestFindImprovingSortedAndLimited(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("BIG", 2022, 2, 1.0, models.ZoneDistress),
		annual("BIG", 2024, 8, 3.0, models.ZoneSafe), // +6
		annual("MID", 2022, 4, 2.0, models.ZoneGrey),
		annual("MID", 2024, 7, 2.8, models.ZoneGrey), // +3
		annual("FLAT", 2022, 5, 2.0, models.ZoneGrey),
		annual("FLAT", 2024, 5, 2.0, models.ZoneGrey), // 0
	)

	got, err := testAnalyzer(store).FindImproving(context.Background(), 2, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 improvers, got %d", len(got))
	}
	if got[0].Ticker != "BIG" || got[1].Ticker != "MID" {
		t.Fatalf("expected BIG then MID, got %s then %s", got[0].Ticker, got[1].Ticker)
	}

	limited, err := testAnalyzer(store).FindImproving(context.Background(), 2, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 || limited[0].Ticker != "BIG" {
		t.Fatalf("expected limit to keep only BIG, got %v", limited)
	}
}

func TestFindDecliningMostNegativeFirst(t *testing.T) {
	store := newFakeStore()
	store.add(
		annual("DROP", 2022, 8, 3.0, models.ZoneSafe),
		annual("DROP", 2024, 2, 1.0, models.ZoneDistress), // -6
		annual("DIP", 2022, 7, 2.8, models.ZoneGrey),
		annual("DIP", 2024, 5, 2.5, models.ZoneGrey), // -2
	)

	got, err := testAnalyzer(store).FindDeclining(context.Background(), 2, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 decliners, got %d", len(got))
	}
	if got[0].Ticker != "DROP" || got[0].FScoreChange != -6 {
		t.Fatalf("expected DROP first with -6, got %s %d", got[0].Ticker, got[0].FScoreChange)
	}
}

func TestFindConsistent(t *testing.T) {
	store := newFakeStore()
	// Held >= 7 through every window period.
	store.add(
		annual("ROCK", 2022, 8, 3.5, models.ZoneSafe),
		annual("ROCK", 2023, 9, 3.6, models.ZoneSafe),
		annual("ROCK", 2024, 8, 3.7, models.ZoneSafe),
	)
	// Also qualifies, lower average.
	store.add(
		annual("OKAY", 2022, 7, 3.0, models.ZoneSafe),
		annual("OKAY", 2023, 7, 3.1, models.ZoneSafe),
		annual("OKAY", 2024, 8, 3.2, models.ZoneSafe),
	)
	// One sub-threshold period disqualifies.
	store.add(
		annual("DIP", 2022, 8, 3.0, models.ZoneSafe),
		annual("DIP", 2023, 6, 2.8, models.ZoneGrey),
		annual("DIP", 2024, 9, 3.4, models.ZoneSafe),
	)
	// Not enough history for the window.
	store.add(
		annual("SHORT", 2023, 9, 3.8, models.ZoneSafe),
		annual("SHORT", 2024, 9, 3.9, models.ZoneSafe),
	)

	got, err := testAnalyzer(store).FindConsistent(context.Background(), 7, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 performers, got %d: %v", len(got), got)
	}
	if got[0].Ticker != "ROCK" || got[1].Ticker != "OKAY" {
		t.Fatalf("expected ROCK then OKAY by average, got %s then %s",
			got[0].Ticker, got[1].Ticker)
	}
	p := got[0]
	if p.ConsecutivePeriods != 3 {
		t.Fatalf("expected 3 consecutive periods, got %d", p.ConsecutivePeriods)
	}
	if p.AverageFScore != 25.0/3 || p.MinFScore != 8 || p.MaxFScore != 9 {
		t.Fatalf("unexpected aggregates %+v", p)
	}
	if p.CurrentFScore != 8 || p.CurrentZone != models.ZoneSafe || p.CurrentZScore != 3.7 {
		t.Fatalf("expected latest-period snapshot, got %+v", p)
	}

	limited, err := testAnalyzer(store).FindConsistent(context.Background(), 7, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 || limited[0].Ticker != "ROCK" {
		t.Fatalf("expected limit to keep only ROCK, got %v", limited)
	}
}

func TestFindTurnarounds(t *testing.T) {
	store := newFakeStore()
	// Escaped distress and stayed out.
	store.add(
		annual("PHOENIX", 2021, 3, 1.2, models.ZoneDistress),
		annual("PHOENIX", 2022, 5, 2.1, models.ZoneGrey),
		annual("PHOENIX", 2023, 7, 3.4, models.ZoneSafe),
	)
	// Escaped distress but fell back in; latest is Distress.
	store.add(
		annual("RELAPSE", 2021, 3, 1.2, models.ZoneDistress),
		annual("RELAPSE", 2022, 5, 2.1, models.ZoneGrey),
		annual("RELAPSE", 2023, 2, 1.0, models.ZoneDistress),
	)
	// Never distressed.
	store.add(
		annual("STEADY", 2022, 8, 3.5, models.ZoneSafe),
		annual("STEADY", 2023, 8, 3.6, models.ZoneSafe),
	)

	got, err := testAnalyzer(store).FindTurnarounds(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only PHOENIX, got %d candidates", len(got))
	}
	c := got[0]
	if c.Ticker != "PHOENIX" {
		t.Fatalf("expected PHOENIX, got %s", c.Ticker)
	}
	if c.PreviousZone != models.ZoneDistress || c.CurrentZone != models.ZoneSafe {
		t.Fatalf("expected Distress -> Safe, got %s -> %s", c.PreviousZone, c.CurrentZone)
	}
	// Improvement is measured at the 2021 -> 2022 transition.
	if c.ZScoreImprovement != 2.1-1.2 {
		t.Fatalf("expected improvement %.2f, got %.2f", 2.1-1.2, c.ZScoreImprovement)
	}
	if c.CurrentFScore != 7 {
		t.Fatalf("expected latest F-Score 7, got %d", c.CurrentFScore)
	}
	if c.PeriodsSinceDistress != 2 {
		t.Fatalf("expected 2 periods since distress, got %d", c.PeriodsSinceDistress)
	}
}
