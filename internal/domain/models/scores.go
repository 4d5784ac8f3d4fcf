package models

import "time"

// Zone is the Altman bankruptcy-risk classification.
type Zone string

const (
	ZoneSafe     Zone = "Safe"
	ZoneGrey     Zone = "Grey"
	ZoneDistress Zone = "Distress"
)

// Formula selects the Altman coefficient set. Which one applies is an
// industry-classification concern decided upstream (SIC lookup).
type Formula string

const (
	FormulaManufacturing    Formula = "manufacturing"
	FormulaNonManufacturing Formula = "non_manufacturing"
)

// PiotroskiResult is the outcome of one F-Score calculation over a
// (current, prior) period pair. Signal pointers are tri-state: nil means the
// signal could not be computed from the available figures.
type PiotroskiResult struct {
	Score              int
	ProfitabilityScore int // 0-4
	LeverageScore      int // 0-3
	EfficiencyScore    int // 0-2

	// Profitability signals
	PositiveROA     *bool
	PositiveCFO     *bool
	ROAImproving    *bool
	AccrualsQuality *bool

	// Leverage/liquidity signals
	LeverageDecreasing    *bool
	CurrentRatioImproving *bool
	NoDilution            *bool

	// Operating efficiency signals
	GrossMarginImproving   *bool
	AssetTurnoverImproving *bool

	SignalsAvailable int
	MissingSignals   []string
	Interpretation   string
}

// AltmanResult is the outcome of one Z-Score calculation. ZScore is nil when
// no component could be computed; Zone is empty exactly then.
type AltmanResult struct {
	ZScore      *float64
	Zone        Zone
	FormulaUsed Formula

	// Component ratios
	X1WorkingCapitalRatio   *float64
	X2RetainedEarningsRatio *float64
	X3EBITRatio             *float64
	X4EquityLeverageRatio   *float64
	X5AssetTurnover         *float64 // manufacturing only

	// Weighted contributions
	X1Contribution *float64
	X2Contribution *float64
	X3Contribution *float64
	X4Contribution *float64
	X5Contribution *float64

	ComponentsCalculated int
	ComponentsRequired   int
	IsApproximate        bool
	MissingInputs        []string
	Interpretation       string
}

// IsSafe reports whether the company scored in the safe zone.
func (r AltmanResult) IsSafe() bool { return r.Zone == ZoneSafe }

// IsDistressed reports whether the company scored in the distress zone.
func (r AltmanResult) IsDistressed() bool { return r.Zone == ZoneDistress }

// ScoreHistoryRecord is the durable, queryable form of the two results,
// keyed by ticker and fiscal period. Append-only from the scoring engine's
// perspective; the store handles replacement of re-scored periods.
type ScoreHistoryRecord struct {
	Ticker       string
	FiscalYear   int
	FiscalPeriod string // "FY", "Q1".."Q4"

	PiotroskiScore         int
	PiotroskiProfitability int
	PiotroskiLeverage      int
	PiotroskiEfficiency    int

	AltmanZScore  float64
	AltmanZone    Zone
	AltmanFormula Formula

	RecordedAt time.Time
}

// Valid reports whether the record carries the fiscal identity required for
// trend analysis. Records failing this are skipped, not errors.
func (r ScoreHistoryRecord) Valid() bool {
	return r.Ticker != "" && r.FiscalYear > 0 && r.FiscalPeriod != ""
}

// CompositeResult combines both scores for gate-and-rank screening: gate by
// Piotroski threshold, rank passers by Altman Z descending.
type CompositeResult struct {
	Ticker        string
	Piotroski     PiotroskiResult
	Altman        AltmanResult
	PassesGate    bool
	CompositeRank int // 1 = best; 0 when the stock did not pass the gate
	GateThreshold int
}
