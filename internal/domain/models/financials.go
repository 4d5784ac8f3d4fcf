package models

// FinancialPeriod holds one fiscal period's statement figures as reported in
// SEC filings. All values are in consistent units (typically thousands or
// millions). A nil field means the metric was not reported; the calculators
// degrade per signal/component instead of failing.
type FinancialPeriod struct {
	// Income statement
	Revenue     *float64
	GrossProfit *float64
	NetIncome   *float64
	EBIT        *float64

	// Balance sheet
	TotalAssets        *float64
	TotalLiabilities   *float64
	CurrentAssets      *float64
	CurrentLiabilities *float64
	LongTermDebt       *float64
	RetainedEarnings   *float64
	SharesOutstanding  *float64

	// Equity valuation
	MarketCap  *float64 // market value of equity
	BookEquity *float64 // stockholders' equity, fallback for the X4 ratio

	// Cash flow statement
	OperatingCashFlow *float64

	// Metadata
	PeriodEnd    string
	FiscalYear   int
	FiscalPeriod string // "FY", "Q1".."Q4"
}

// WorkingCapital returns current assets minus current liabilities, or nil
// when either side is missing.
func (p FinancialPeriod) WorkingCapital() *float64 {
	if p.CurrentAssets == nil || p.CurrentLiabilities == nil {
		return nil
	}
	wc := *p.CurrentAssets - *p.CurrentLiabilities
	return &wc
}

// FinancialPeriodFromMap builds a FinancialPeriod from loosely keyed fact
// data. Alias keys from upstream extractors are accepted; absent keys stay
// nil.
func FinancialPeriodFromMap(data map[string]float64) FinancialPeriod {
	pick := func(keys ...string) *float64 {
		for _, k := range keys {
			if v, ok := data[k]; ok {
				return &v
			}
		}
		return nil
	}
	return FinancialPeriod{
		Revenue:            pick("revenue", "revenues", "sales"),
		GrossProfit:        pick("gross_profit"),
		NetIncome:          pick("net_income"),
		EBIT:               pick("ebit", "operating_income"),
		TotalAssets:        pick("total_assets", "assets"),
		TotalLiabilities:   pick("total_liabilities", "liabilities"),
		CurrentAssets:      pick("current_assets"),
		CurrentLiabilities: pick("current_liabilities"),
		LongTermDebt:       pick("long_term_debt"),
		RetainedEarnings:   pick("retained_earnings"),
		SharesOutstanding:  pick("shares_outstanding"),
		MarketCap:          pick("market_cap", "market_value_equity"),
		BookEquity:         pick("book_equity", "stockholders_equity", "shareholders_equity"),
		OperatingCashFlow:  pick("operating_cash_flow", "operating_cf"),
	}
}

// Float is a pointer helper for building periods literal-by-literal.
func Float(v float64) *float64 { return &v }
