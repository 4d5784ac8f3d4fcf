// Package scoring implements the Piotroski F-Score and Altman Z-Score
// calculators over immutable per-period statement data.
package scoring

// Score thresholds and formula coefficients. Single source of truth: the
// presentation layer reads these for display thresholds and must stay in
// sync with the calculators, so nothing below is inlined at use sites.

// Piotroski F-Score.
const (
	FScoreMax         = 9
	FScoreStrongMin   = 7 // >= 7: Strong
	FScoreModerateMin = 4 // >= 4: Moderate (below 4: Weak)

	// FScoreMinSignals is the minimum number of computable signals before a
	// total score is reported at all. Below this the calculator returns
	// InsufficientDataError and callers render an explicit no-data state.
	FScoreMinSignals = 5
)

// Altman Z-Score zone boundaries. Comparator semantics are asymmetric on
// purpose: strictly above the safe boundary is Safe, at or above the grey-low
// boundary is Grey.
const (
	ZScoreMfgSafe    = 2.99 // > 2.99: Safe (original 1968 formula)
	ZScoreMfgGreyLow = 1.81 // >= 1.81: Grey (below: Distress)

	ZScoreNonMfgSafe    = 2.60 // 1993 revision
	ZScoreNonMfgGreyLow = 1.10

	// Cap for the X4 equity ratio when total liabilities is zero.
	ZeroLiabilitiesEquityCap = 10.0
)

// Coefficients is one Altman weight set. X5 is zero for the
// non-manufacturing formula, which omits the sales term.
type Coefficients struct {
	X1, X2, X3, X4, X5 float64
}

var (
	// MfgCoefficients weights the original manufacturing formula:
	// Z = 1.2*X1 + 1.4*X2 + 3.3*X3 + 0.6*X4 + 1.0*X5.
	MfgCoefficients = Coefficients{X1: 1.2, X2: 1.4, X3: 3.3, X4: 0.6, X5: 1.0}

	// NonMfgCoefficients weights the service-industry Z'' formula:
	// Z'' = 6.56*X1 + 3.26*X2 + 6.72*X3 + 1.05*X4.
	NonMfgCoefficients = Coefficients{X1: 6.56, X2: 3.26, X3: 6.72, X4: 1.05}
)
