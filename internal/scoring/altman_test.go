package scoring

import (
	"math"
	"testing"

	"FinSight/internal/domain/models"
)

func TestAltmanManufacturingWorkedExample(t *testing.T) {
	// x1=0.2, x2=0.3, x3=0.15, x4=0.5, x5=1.0
	// z = 0.24 + 0.42 + 0.495 + 0.30 + 1.00 = 2.455
	period := models.FinancialPeriod{
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
		RetainedEarnings:   models.Float(300),
		EBIT:               models.Float(150),
		TotalLiabilities:   models.Float(600),
		MarketCap:          models.Float(300),
		Revenue:            models.Float(1000),
	}

	res, err := NewAltmanScorer().Calculate(period, models.FormulaManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ZScore == nil {
		t.Fatalf("expected a z-score")
	}
	if math.Abs(*res.ZScore-2.455) > 1e-9 {
		t.Fatalf("expected z = 2.455, got %v", *res.ZScore)
	}
	if res.Zone != models.ZoneGrey {
		t.Fatalf("expected Grey zone, got %q", res.Zone)
	}
	if res.ComponentsCalculated != 5 || res.ComponentsRequired != 5 {
		t.Fatalf("expected 5/5 components, got %d/%d",
			res.ComponentsCalculated, res.ComponentsRequired)
	}
	if res.IsApproximate {
		t.Fatalf("full coverage should not be approximate")
	}
}

func TestAltmanNonManufacturing(t *testing.T) {
	// Same ratios, Z'' formula with book equity for x4:
	// z = 6.56*0.2 + 3.26*0.3 + 6.72*0.15 + 1.05*0.5 = 3.823
	period := models.FinancialPeriod{
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
		RetainedEarnings:   models.Float(300),
		EBIT:               models.Float(150),
		TotalLiabilities:   models.Float(600),
		BookEquity:         models.Float(300),
	}

	res, err := NewAltmanScorer().Calculate(period, models.FormulaNonManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ZScore == nil || math.Abs(*res.ZScore-3.823) > 1e-9 {
		t.Fatalf("expected z = 3.823, got %v", res.ZScore)
	}
	if res.Zone != models.ZoneSafe {
		t.Fatalf("expected Safe zone, got %q", res.Zone)
	}
	if res.ComponentsRequired != 4 || res.ComponentsCalculated != 4 {
		t.Fatalf("expected 4/4 components, got %d/%d",
			res.ComponentsCalculated, res.ComponentsRequired)
	}
	if res.X5AssetTurnover != nil || res.X5Contribution != nil {
		t.Fatalf("non-manufacturing formula must not use the sales term")
	}
}

func TestDetermineZoneBoundaries(t *testing.T) {
	cases := []struct {
		z       float64
		formula models.Formula
		want    models.Zone
	}{
		// Exactly on the safe boundary is still Grey; strictly above is Safe.
		{2.99, models.FormulaManufacturing, models.ZoneGrey},
		{3.00, models.FormulaManufacturing, models.ZoneSafe},
		{1.81, models.FormulaManufacturing, models.ZoneGrey},
		{1.80, models.FormulaManufacturing, models.ZoneDistress},
		{2.60, models.FormulaNonManufacturing, models.ZoneGrey},
		{2.61, models.FormulaNonManufacturing, models.ZoneSafe},
		{1.10, models.FormulaNonManufacturing, models.ZoneGrey},
		{1.09, models.FormulaNonManufacturing, models.ZoneDistress},
	}
	for _, c := range cases {
		if got := DetermineZone(c.z, c.formula); got != c.want {
			t.Fatalf("DetermineZone(%v, %s) = %q, want %q", c.z, c.formula, got, c.want)
		}
	}
}

func TestAltmanZeroLiabilitiesCapsEquityRatio(t *testing.T) {
	period := models.FinancialPeriod{
		TotalAssets:      models.Float(1000),
		TotalLiabilities: models.Float(0),
		MarketCap:        models.Float(5000),
	}

	res, err := NewAltmanScorer().Calculate(period, models.FormulaManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.X4EquityLeverageRatio == nil || *res.X4EquityLeverageRatio != ZeroLiabilitiesEquityCap {
		t.Fatalf("expected x4 capped at %v, got %v", ZeroLiabilitiesEquityCap, res.X4EquityLeverageRatio)
	}
}

func TestAltmanBookEquityFallback(t *testing.T) {
	period := models.FinancialPeriod{
		TotalLiabilities: models.Float(600),
		BookEquity:       models.Float(300),
		// MarketCap deliberately absent
	}

	res, err := NewAltmanScorer().Calculate(period, models.FormulaManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.X4EquityLeverageRatio == nil || *res.X4EquityLeverageRatio != 0.5 {
		t.Fatalf("expected x4 = 0.5 via book equity fallback, got %v", res.X4EquityLeverageRatio)
	}
}

func TestAltmanPartialIsApproximate(t *testing.T) {
	period := models.FinancialPeriod{
		TotalAssets:        models.Float(1000),
		CurrentAssets:      models.Float(400),
		CurrentLiabilities: models.Float(200),
		RetainedEarnings:   models.Float(300),
		TotalLiabilities:   models.Float(600),
		MarketCap:          models.Float(300),
		Revenue:            models.Float(1000),
		// EBIT absent
	}

	res, err := NewAltmanScorer().Calculate(period, models.FormulaManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ComponentsCalculated != 4 {
		t.Fatalf("expected 4 components, got %d", res.ComponentsCalculated)
	}
	if !res.IsApproximate {
		t.Fatalf("partial coverage must be approximate")
	}
	if res.ZScore == nil {
		t.Fatalf("partial score should still be reported")
	}
	if len(res.MissingInputs) != 1 {
		t.Fatalf("expected 1 missing input, got %v", res.MissingInputs)
	}
}

func TestAltmanRequireAllFailsOnMissingComponent(t *testing.T) {
	period := models.FinancialPeriod{
		TotalAssets:      models.Float(1000),
		RetainedEarnings: models.Float(300),
	}

	_, err := NewAltmanScorer().Calculate(period, models.FormulaManufacturing, true)
	if !IsInsufficientData(err) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestAltmanNothingComputable(t *testing.T) {
	res, err := NewAltmanScorer().Calculate(models.FinancialPeriod{}, models.FormulaManufacturing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ZScore != nil {
		t.Fatalf("expected nil z-score, got %v", *res.ZScore)
	}
	if res.Zone != "" {
		t.Fatalf("expected empty zone, got %q", res.Zone)
	}
	if res.Interpretation != "Insufficient data - Unable to calculate Z-Score" {
		t.Fatalf("unexpected interpretation %q", res.Interpretation)
	}
	if !res.IsApproximate {
		t.Fatalf("zero components is approximate by definition")
	}
}

func TestAltmanUnknownFormulaDefaultsToManufacturing(t *testing.T) {
	period := models.FinancialPeriod{
		TotalLiabilities: models.Float(600),
		MarketCap:        models.Float(300),
	}
	res, err := NewAltmanScorer().Calculate(period, models.Formula("unknown"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FormulaUsed != models.FormulaManufacturing {
		t.Fatalf("expected manufacturing default, got %q", res.FormulaUsed)
	}
	if res.ComponentsRequired != 5 {
		t.Fatalf("expected 5 required, got %d", res.ComponentsRequired)
	}
}
