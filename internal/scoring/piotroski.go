package scoring

import (
	"fmt"
	"math"

	"FinSight/internal/domain/models"
)

// PiotroskiScorer computes the 9-signal F-Score from two periods of
// statement data. Stateless; safe for concurrent use.
type PiotroskiScorer struct{}

func NewPiotroskiScorer() *PiotroskiScorer { return &PiotroskiScorer{} }

// Calculate scores current against prior. Each signal that lacks its inputs
// in either period degrades to unavailable instead of false; the total is
// reported only when at least FScoreMinSignals signals were computable,
// otherwise an InsufficientDataError is returned.
func (s *PiotroskiScorer) Calculate(current, prior models.FinancialPeriod) (models.PiotroskiResult, error) {
	type signal struct {
		name  string
		value *bool
	}

	signals := []signal{
		// Profitability (4 points)
		{"positive_roa", s.positiveROA(current)},
		{"positive_cfo", s.positiveCFO(current)},
		{"roa_improving", s.roaImproving(current, prior)},
		{"accruals_quality", s.accrualsQuality(current)},
		// Leverage/liquidity (3 points)
		{"leverage_decreasing", s.leverageDecreasing(current, prior)},
		{"current_ratio_improving", s.currentRatioImproving(current, prior)},
		{"no_dilution", s.noDilution(current, prior)},
		// Operating efficiency (2 points)
		{"gross_margin_improving", s.grossMarginImproving(current, prior)},
		{"asset_turnover_improving", s.assetTurnoverImproving(current, prior)},
	}

	var missing []string
	available := 0
	for _, sig := range signals {
		if sig.value == nil {
			missing = append(missing, sig.name)
		} else {
			available++
		}
	}

	if available < FScoreMinSignals {
		return models.PiotroskiResult{}, &InsufficientDataError{
			Reason:        fmt.Sprintf("only %d/%d Piotroski signals computable", available, FScoreMax),
			MissingFields: missing,
		}
	}

	res := models.PiotroskiResult{
		PositiveROA:            signals[0].value,
		PositiveCFO:            signals[1].value,
		ROAImproving:           signals[2].value,
		AccrualsQuality:        signals[3].value,
		LeverageDecreasing:     signals[4].value,
		CurrentRatioImproving:  signals[5].value,
		NoDilution:             signals[6].value,
		GrossMarginImproving:   signals[7].value,
		AssetTurnoverImproving: signals[8].value,
		SignalsAvailable:       available,
		MissingSignals:         missing,
	}
	res.ProfitabilityScore = countTrue(res.PositiveROA, res.PositiveCFO, res.ROAImproving, res.AccrualsQuality)
	res.LeverageScore = countTrue(res.LeverageDecreasing, res.CurrentRatioImproving, res.NoDilution)
	res.EfficiencyScore = countTrue(res.GrossMarginImproving, res.AssetTurnoverImproving)
	res.Score = res.ProfitabilityScore + res.LeverageScore + res.EfficiencyScore
	res.Interpretation = Interpret(res.Score)
	return res, nil
}

// Interpret maps an F-Score to its display text using the shared thresholds.
func Interpret(score int) string {
	switch {
	case score >= FScoreStrongMin:
		return "Strong - Financially healthy"
	case score >= FScoreModerateMin:
		return "Moderate - Mixed signals"
	default:
		return "Weak - Financial concerns"
	}
}

// ========== Profitability signals ==========

// Signal 1: ROA > 0.
func (s *PiotroskiScorer) positiveROA(current models.FinancialPeriod) *bool {
	roa := roa(current)
	if roa == nil {
		return nil
	}
	return boolPtr(*roa > 0)
}

// Signal 2: operating cash flow > 0.
func (s *PiotroskiScorer) positiveCFO(current models.FinancialPeriod) *bool {
	if current.OperatingCashFlow == nil {
		return nil
	}
	return boolPtr(*current.OperatingCashFlow > 0)
}

// Signal 3: ROA increased year over year.
func (s *PiotroskiScorer) roaImproving(current, prior models.FinancialPeriod) *bool {
	cur, prev := roa(current), roa(prior)
	if cur == nil || prev == nil {
		return nil
	}
	return boolPtr(*cur > *prev)
}

// Signal 4: CFO > net income, i.e. earnings are backed by cash rather than
// accruals. Equivalent to the paper's CFO/TA > NI/TA when assets are positive.
func (s *PiotroskiScorer) accrualsQuality(current models.FinancialPeriod) *bool {
	if current.OperatingCashFlow == nil || current.NetIncome == nil {
		return nil
	}
	return boolPtr(*current.OperatingCashFlow > *current.NetIncome)
}

// ========== Leverage/liquidity signals ==========

// Signal 5: long-term debt / total assets decreased. A company that paid off
// all debt, or carries none in both periods, gets the point: there is no
// leverage risk left to reduce.
func (s *PiotroskiScorer) leverageDecreasing(current, prior models.FinancialPeriod) *bool {
	if current.LongTermDebt != nil && *current.LongTermDebt == 0 && prior.LongTermDebt != nil {
		if *prior.LongTermDebt > 0 {
			return boolPtr(true) // paid off all debt
		}
		if *prior.LongTermDebt == 0 {
			return boolPtr(true) // maintained zero debt
		}
	}
	cur, prev := leverageRatio(current), leverageRatio(prior)
	if cur == nil || prev == nil {
		return nil
	}
	return boolPtr(*cur < *prev)
}

// Signal 6: current ratio improved.
func (s *PiotroskiScorer) currentRatioImproving(current, prior models.FinancialPeriod) *bool {
	cur, prev := currentRatio(current), currentRatio(prior)
	if cur == nil || prev == nil {
		return nil
	}
	return boolPtr(*cur > *prev)
}

// Signal 7: shares outstanding did not increase. Strict binary test per the
// academic definition; no tolerance for compensation-driven creep.
func (s *PiotroskiScorer) noDilution(current, prior models.FinancialPeriod) *bool {
	if current.SharesOutstanding == nil || prior.SharesOutstanding == nil {
		return nil
	}
	return boolPtr(*current.SharesOutstanding <= *prior.SharesOutstanding)
}

// ========== Operating efficiency signals ==========

// Signal 8: gross margin improved.
func (s *PiotroskiScorer) grossMarginImproving(current, prior models.FinancialPeriod) *bool {
	cur, prev := grossMargin(current), grossMargin(prior)
	if cur == nil || prev == nil {
		return nil
	}
	return boolPtr(*cur > *prev)
}

// Signal 9: asset turnover improved.
func (s *PiotroskiScorer) assetTurnoverImproving(current, prior models.FinancialPeriod) *bool {
	cur, prev := assetTurnover(current), assetTurnover(prior)
	if cur == nil || prev == nil {
		return nil
	}
	return boolPtr(*cur > *prev)
}

// ========== Ratio helpers ==========

func roa(p models.FinancialPeriod) *float64 {
	return safeRatio(p.NetIncome, p.TotalAssets)
}

func leverageRatio(p models.FinancialPeriod) *float64 {
	return safeRatio(p.LongTermDebt, p.TotalAssets)
}

// currentRatio treats zero current liabilities as an effectively infinite
// (good) ratio when current assets are reported and nonzero.
func currentRatio(p models.FinancialPeriod) *float64 {
	if p.CurrentAssets == nil || p.CurrentLiabilities == nil {
		return nil
	}
	if *p.CurrentLiabilities == 0 {
		if *p.CurrentAssets == 0 {
			return nil
		}
		inf := math.Inf(1)
		return &inf
	}
	v := *p.CurrentAssets / *p.CurrentLiabilities
	return &v
}

func grossMargin(p models.FinancialPeriod) *float64 {
	return safeRatio(p.GrossProfit, p.Revenue)
}

func assetTurnover(p models.FinancialPeriod) *float64 {
	return safeRatio(p.Revenue, p.TotalAssets)
}

// safeRatio returns num/den, or nil when either is missing or den is zero.
func safeRatio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

func boolPtr(b bool) *bool { return &b }

func countTrue(signals ...*bool) int {
	n := 0
	for _, s := range signals {
		if s != nil && *s {
			n++
		}
	}
	return n
}
