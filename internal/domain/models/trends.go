package models

// TrendDirection labels the F-Score delta over the analyzed window.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendResult compares the oldest and newest records inside the analyzed
// window for one ticker. Derived on demand, never persisted.
type TrendResult struct {
	Ticker         string
	TrendDirection TrendDirection

	CurrentFScore  int
	PreviousFScore int
	FScoreChange   int

	CurrentZScore  float64
	PreviousZScore float64
	ZScoreChange   float64

	CurrentZone  Zone
	PreviousZone Zone
	ZoneChanged  bool

	PeriodsAnalyzed int
}

// ConsistentPerformer marks a ticker whose F-Score held at or above a
// threshold for every one of its most recent recorded periods.
type ConsistentPerformer struct {
	Ticker string

	AverageFScore float64
	MinFScore     int
	MaxFScore     int
	CurrentFScore int

	CurrentZScore float64
	CurrentZone   Zone

	ConsecutivePeriods int
}

// TurnaroundCandidate marks a ticker whose Altman zone moved out of Distress
// between consecutive recorded periods and has stayed out since.
type TurnaroundCandidate struct {
	Ticker string

	PreviousZone   Zone
	CurrentZone    Zone
	PreviousZScore float64
	CurrentZScore  float64

	// Delta at the Distress -> Grey/Safe transition.
	ZScoreImprovement float64

	CurrentFScore        int
	PeriodsSinceDistress int
}
