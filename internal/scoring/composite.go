package scoring

import (
	"sort"

	"FinSight/internal/domain/models"
)

// StockFinancials bundles one ticker's scoring inputs for screening.
type StockFinancials struct {
	Ticker  string
	Current models.FinancialPeriod
	Prior   models.FinancialPeriod
	Formula models.Formula
}

// CompositeScorer combines both models with a gate-and-rank approach:
// stocks must first pass the Piotroski threshold, then passers are ranked by
// Altman Z-Score descending. Quality gate first, stability rank second.
type CompositeScorer struct {
	piotroski *PiotroskiScorer
	altman    *AltmanScorer
}

func NewCompositeScorer() *CompositeScorer {
	return &CompositeScorer{piotroski: NewPiotroskiScorer(), altman: NewAltmanScorer()}
}

// Score computes both models for one stock. gate <= 0 uses FScoreStrongMin.
func (s *CompositeScorer) Score(in StockFinancials, gate int) (models.CompositeResult, error) {
	if gate <= 0 {
		gate = FScoreStrongMin
	}

	pr, err := s.piotroski.Calculate(in.Current, in.Prior)
	if err != nil {
		return models.CompositeResult{}, err
	}
	ar, err := s.altman.Calculate(in.Current, in.Formula, false)
	if err != nil {
		return models.CompositeResult{}, err
	}

	return models.CompositeResult{
		Ticker:        in.Ticker,
		Piotroski:     pr,
		Altman:        ar,
		PassesGate:    pr.Score >= gate,
		GateThreshold: gate,
	}, nil
}

// Rank screens a universe of stocks. Stocks whose scoring fails on
// insufficient data are dropped; passers get CompositeRank starting at 1 in
// Z-Score descending order, with unscored Z sorting last.
func (s *CompositeScorer) Rank(stocks []StockFinancials, gate int) []models.CompositeResult {
	results := make([]models.CompositeResult, 0, len(stocks))
	for _, in := range stocks {
		res, err := s.Score(in, gate)
		if err != nil {
			continue
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.PassesGate != b.PassesGate {
			return a.PassesGate
		}
		return zOrNegInf(a.Altman) > zOrNegInf(b.Altman)
	})

	rank := 0
	for i := range results {
		if results[i].PassesGate {
			rank++
			results[i].CompositeRank = rank
		}
	}
	return results
}

func zOrNegInf(r models.AltmanResult) float64 {
	if r.ZScore == nil {
		return -1e18
	}
	return *r.ZScore
}
