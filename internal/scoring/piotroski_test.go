package scoring

import (
	"testing"

	"FinSight/internal/domain/models"
)

func strongPeriodPair() (models.FinancialPeriod, models.FinancialPeriod) {
	current := models.FinancialPeriod{
		Revenue:            models.Float(1000),
		GrossProfit:        models.Float(500),
		NetIncome:          models.Float(100),
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(500),
		CurrentLiabilities: models.Float(200),
		LongTermDebt:       models.Float(100),
		SharesOutstanding:  models.Float(100),
		OperatingCashFlow:  models.Float(150),
	}
	prior := models.FinancialPeriod{
		Revenue:            models.Float(900),
		GrossProfit:        models.Float(400),
		NetIncome:          models.Float(50),
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
		LongTermDebt:       models.Float(150),
		SharesOutstanding:  models.Float(100),
		OperatingCashFlow:  models.Float(80),
	}
	return current, prior
}

func TestPiotroskiAllSignalsTrue(t *testing.T) {
	current, prior := strongPeriodPair()

	res, err := NewPiotroskiScorer().Calculate(current, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 9 {
		t.Fatalf("expected score 9, got %d", res.Score)
	}
	if res.ProfitabilityScore != 4 || res.LeverageScore != 3 || res.EfficiencyScore != 2 {
		t.Fatalf("unexpected bucket scores %d/%d/%d",
			res.ProfitabilityScore, res.LeverageScore, res.EfficiencyScore)
	}
	if res.Score != res.ProfitabilityScore+res.LeverageScore+res.EfficiencyScore {
		t.Fatalf("score %d does not equal bucket sum", res.Score)
	}
	if res.SignalsAvailable != 9 || len(res.MissingSignals) != 0 {
		t.Fatalf("expected full coverage, got %d available, missing %v",
			res.SignalsAvailable, res.MissingSignals)
	}
	if res.Interpretation != "Strong - Financially healthy" {
		t.Fatalf("unexpected interpretation %q", res.Interpretation)
	}
}

func TestPiotroskiAllSignalsFalse(t *testing.T) {
	current := models.FinancialPeriod{
		Revenue:            models.Float(900),
		GrossProfit:        models.Float(300),
		NetIncome:          models.Float(-50),
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(300),
		CurrentLiabilities: models.Float(200),
		LongTermDebt:       models.Float(300),
		SharesOutstanding:  models.Float(120),
		OperatingCashFlow:  models.Float(-60),
	}
	prior := models.FinancialPeriod{
		Revenue:            models.Float(1000),
		GrossProfit:        models.Float(400),
		NetIncome:          models.Float(100),
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
		LongTermDebt:       models.Float(200),
		SharesOutstanding:  models.Float(100),
		OperatingCashFlow:  models.Float(150),
	}

	res, err := NewPiotroskiScorer().Calculate(current, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0, got %d", res.Score)
	}
	if res.Interpretation != "Weak - Financial concerns" {
		t.Fatalf("unexpected interpretation %q", res.Interpretation)
	}
}

func TestPiotroskiWorkedExample(t *testing.T) {
	current := models.FinancialPeriod{
		NetIncome:         models.Float(100),
		TotalAssets:       models.Float(1000),
		OperatingCashFlow: models.Float(150),
		LongTermDebt:      models.Float(200),
	}
	prior := models.FinancialPeriod{
		NetIncome:         models.Float(50),
		TotalAssets:       models.Float(900),
		OperatingCashFlow: models.Float(80),
		LongTermDebt:      models.Float(250),
	}

	res, err := NewPiotroskiScorer().Calculate(current, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, sig := range map[string]*bool{
		"positive_roa":        res.PositiveROA,
		"positive_cfo":        res.PositiveCFO,
		"roa_improving":       res.ROAImproving,
		"accruals_quality":    res.AccrualsQuality,
		"leverage_decreasing": res.LeverageDecreasing,
	} {
		if sig == nil || !*sig {
			t.Fatalf("expected %s true, got %v", name, sig)
		}
	}
	if res.SignalsAvailable != 5 {
		t.Fatalf("expected 5 signals available, got %d", res.SignalsAvailable)
	}
	if res.Score != 5 {
		t.Fatalf("expected score 5, got %d", res.Score)
	}
	// The four efficiency/liquidity signals lack inputs entirely.
	if res.CurrentRatioImproving != nil || res.NoDilution != nil ||
		res.GrossMarginImproving != nil || res.AssetTurnoverImproving != nil {
		t.Fatalf("expected unavailable signals to stay nil")
	}
	if len(res.MissingSignals) != 4 {
		t.Fatalf("expected 4 missing signals, got %v", res.MissingSignals)
	}
}

func TestPiotroskiMissingPriorDegrades(t *testing.T) {
	current, _ := strongPeriodPair()

	// Year-over-year signals need the prior period; only the 3 single-period
	// signals survive, which is below minimum coverage.
	_, err := NewPiotroskiScorer().Calculate(current, models.FinancialPeriod{})
	if err == nil {
		t.Fatalf("expected insufficient data error")
	}
	if !IsInsufficientData(err) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
}

func TestPiotroskiEmptyInput(t *testing.T) {
	_, err := NewPiotroskiScorer().Calculate(models.FinancialPeriod{}, models.FinancialPeriod{})
	if !IsInsufficientData(err) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestPiotroskiPartialCoverageStillScores(t *testing.T) {
	current, prior := strongPeriodPair()
	prior.SharesOutstanding = nil

	res, err := NewPiotroskiScorer().Calculate(current, prior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NoDilution != nil {
		t.Fatalf("expected no_dilution unavailable")
	}
	if res.SignalsAvailable != 8 {
		t.Fatalf("expected 8 available, got %d", res.SignalsAvailable)
	}
	if res.Score != 8 {
		t.Fatalf("expected score 8, got %d", res.Score)
	}
}

func TestPiotroskiZeroDebtSpecialCases(t *testing.T) {
	cases := []struct {
		name       string
		currentLTD float64
		priorLTD   float64
	}{
		{"paid off all debt", 0, 250},
		{"maintained zero debt", 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			current := models.FinancialPeriod{LongTermDebt: models.Float(c.currentLTD)}
			// Prior omits total assets so the ratio path cannot answer; only
			// the zero-debt rule can award the point.
			prior := models.FinancialPeriod{LongTermDebt: models.Float(c.priorLTD)}

			got := (&PiotroskiScorer{}).leverageDecreasing(current, prior)
			if got == nil || !*got {
				t.Fatalf("expected leverage_decreasing true, got %v", got)
			}
		})
	}
}

func TestPiotroskiCurrentRatioZeroLiabilities(t *testing.T) {
	// Zero liabilities with assets on hand beats any finite prior ratio.
	current := models.FinancialPeriod{
		CurrentAssets:      models.Float(500),
		CurrentLiabilities: models.Float(0),
	}
	prior := models.FinancialPeriod{
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
	}
	got := (&PiotroskiScorer{}).currentRatioImproving(current, prior)
	if got == nil || !*got {
		t.Fatalf("expected current_ratio_improving true, got %v", got)
	}

	// Zero over zero is indeterminate.
	current.CurrentAssets = models.Float(0)
	if got := (&PiotroskiScorer{}).currentRatioImproving(current, prior); got != nil {
		t.Fatalf("expected nil for 0/0 current ratio, got %v", *got)
	}
}

func TestInterpret(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{9, "Strong - Financially healthy"},
		{7, "Strong - Financially healthy"},
		{6, "Moderate - Mixed signals"},
		{4, "Moderate - Mixed signals"},
		{3, "Weak - Financial concerns"},
		{0, "Weak - Financial concerns"},
	}
	for _, c := range cases {
		if got := Interpret(c.score); got != c.want {
			t.Fatalf("Interpret(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}
