package service

import (
	"context"

	"FinSight/internal/domain/models"
)

// FinancialDataSource supplies statement figures for scoring. Implementations
// live outside this module (EDGAR bulk cache, live filings API); the scoring
// engine only needs the two most recent fiscal periods per ticker.
type FinancialDataSource interface {
	Periods(ctx context.Context, ticker string) (current, prior models.FinancialPeriod, err error)
}

// IndustryClassifier resolves which Altman coefficient set applies to a
// ticker (SIC-code lookup upstream).
type IndustryClassifier interface {
	Classify(ctx context.Context, ticker string) (models.Formula, error)
}
