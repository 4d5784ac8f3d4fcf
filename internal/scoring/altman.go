package scoring

import (
	"fmt"

	"FinSight/internal/domain/models"
)

// AltmanScorer computes the Z-Score bankruptcy predictor from one period of
// statement data. Stateless; safe for concurrent use.
type AltmanScorer struct{}

func NewAltmanScorer() *AltmanScorer { return &AltmanScorer{} }

// Calculate computes the Z-Score using the coefficient set selected by
// formula. With requireAll false (the default flow) the score is the weighted
// sum of whatever components were computable and IsApproximate flags partial
// coverage; with requireAll true a missing component is an
// InsufficientDataError instead.
func (s *AltmanScorer) Calculate(period models.FinancialPeriod, formula models.Formula, requireAll bool) (models.AltmanResult, error) {
	mfg := formula != models.FormulaNonManufacturing
	coeff := MfgCoefficients
	required := 5
	if !mfg {
		coeff = NonMfgCoefficients
		required = 4
	}

	res := models.AltmanResult{
		FormulaUsed:        formula,
		ComponentsRequired: required,
	}
	if mfg {
		res.FormulaUsed = models.FormulaManufacturing
	}

	contribute := func(ratio *float64, weight float64, missing string) *float64 {
		if ratio == nil {
			res.MissingInputs = append(res.MissingInputs, missing)
			return nil
		}
		res.ComponentsCalculated++
		c := weight * *ratio
		return &c
	}

	res.X1WorkingCapitalRatio = safeRatio(period.WorkingCapital(), period.TotalAssets)
	res.X1Contribution = contribute(res.X1WorkingCapitalRatio, coeff.X1,
		"working_capital_ratio (current_assets, current_liabilities, total_assets)")

	res.X2RetainedEarningsRatio = safeRatio(period.RetainedEarnings, period.TotalAssets)
	res.X2Contribution = contribute(res.X2RetainedEarningsRatio, coeff.X2,
		"retained_earnings_ratio (retained_earnings, total_assets)")

	res.X3EBITRatio = safeRatio(period.EBIT, period.TotalAssets)
	res.X3Contribution = contribute(res.X3EBITRatio, coeff.X3,
		"ebit_ratio (ebit, total_assets)")

	res.X4EquityLeverageRatio = equityLeverageRatio(period, mfg)
	x4Missing := "equity_leverage_ratio (book_equity, total_liabilities)"
	if mfg {
		x4Missing = "equity_leverage_ratio (market_cap, total_liabilities)"
	}
	res.X4Contribution = contribute(res.X4EquityLeverageRatio, coeff.X4, x4Missing)

	if mfg {
		res.X5AssetTurnover = safeRatio(period.Revenue, period.TotalAssets)
		res.X5Contribution = contribute(res.X5AssetTurnover, coeff.X5,
			"asset_turnover (revenue, total_assets)")
	}

	if requireAll && res.ComponentsCalculated < required {
		return models.AltmanResult{}, &InsufficientDataError{
			Reason: fmt.Sprintf("only %d/%d Z-Score components computable",
				res.ComponentsCalculated, required),
			MissingFields: res.MissingInputs,
		}
	}

	res.IsApproximate = res.ComponentsCalculated < required

	if res.ComponentsCalculated == 0 {
		// Nothing to sum: no score, no zone.
		res.Interpretation = "Insufficient data - Unable to calculate Z-Score"
		return res, nil
	}

	z := 0.0
	for _, c := range []*float64{res.X1Contribution, res.X2Contribution, res.X3Contribution, res.X4Contribution, res.X5Contribution} {
		if c != nil {
			z += *c
		}
	}
	res.ZScore = &z
	res.Zone = DetermineZone(z, res.FormulaUsed)
	res.Interpretation = InterpretZone(res.Zone)
	return res, nil
}

// equityLeverageRatio computes X4. Zero total liabilities is capped at
// ZeroLiabilitiesEquityCap rather than dividing by zero; the manufacturing
// formula falls back to book equity when market cap is unavailable.
func equityLeverageRatio(p models.FinancialPeriod, mfg bool) *float64 {
	if p.TotalLiabilities == nil {
		return nil
	}
	if *p.TotalLiabilities == 0 {
		capped := float64(ZeroLiabilitiesEquityCap)
		return &capped
	}

	equity := p.BookEquity
	if mfg {
		equity = p.MarketCap
		if equity == nil {
			equity = p.BookEquity
		}
	}
	if equity == nil {
		return nil
	}
	v := *equity / *p.TotalLiabilities
	return &v
}

// DetermineZone classifies a Z-Score against the formula's boundaries.
// Strictly above the safe boundary is Safe; at or above grey-low is Grey.
func DetermineZone(z float64, formula models.Formula) models.Zone {
	safe, greyLow := float64(ZScoreMfgSafe), float64(ZScoreMfgGreyLow)
	if formula == models.FormulaNonManufacturing {
		safe, greyLow = ZScoreNonMfgSafe, ZScoreNonMfgGreyLow
	}
	switch {
	case z > safe:
		return models.ZoneSafe
	case z >= greyLow:
		return models.ZoneGrey
	default:
		return models.ZoneDistress
	}
}

// InterpretZone maps a zone to its one-line risk description.
func InterpretZone(zone models.Zone) string {
	switch zone {
	case models.ZoneSafe:
		return "Low bankruptcy risk - Financially stable"
	case models.ZoneGrey:
		return "Uncertain - Requires monitoring"
	case models.ZoneDistress:
		return "High bankruptcy risk - Financial concerns"
	default:
		return "Unknown"
	}
}
