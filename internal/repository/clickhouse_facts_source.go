package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
	pkgch "FinSight/pkg/clickhouse"
	applogger "FinSight/pkg/logger"
)

// CHFactsSource stores the raw statement figures ingested from the facts
// topic and serves them back for batch re-scoring. It doubles as the
// industry classifier: the upstream ETL tags each fact row with the
// coefficient formula derived from the filer's SIC code.
type CHFactsSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHFactsSource(ch *pkgch.Client, table string) *CHFactsSource {
	return &CHFactsSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHFactsSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHFactsSource) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ticker              String,
            fiscal_year         UInt16,
            fiscal_period       LowCardinality(String),
            formula             LowCardinality(String),
            revenue             Nullable(Float64),
            gross_profit        Nullable(Float64),
            net_income          Nullable(Float64),
            ebit                Nullable(Float64),
            total_assets        Nullable(Float64),
            total_liabilities   Nullable(Float64),
            current_assets      Nullable(Float64),
            current_liabilities Nullable(Float64),
            long_term_debt      Nullable(Float64),
            retained_earnings   Nullable(Float64),
            shares_outstanding  Nullable(Float64),
            market_cap          Nullable(Float64),
            book_equity         Nullable(Float64),
            operating_cash_flow Nullable(Float64),
            recorded_at         DateTime
        ) ENGINE = ReplacingMergeTree(recorded_at)
        ORDER BY (ticker, fiscal_year, fiscal_period)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init facts schema: %w", err)
	}
	return nil
}

// SaveFact upserts one fiscal period's figures for a ticker.
func (s *CHFactsSource) SaveFact(ctx context.Context, ticker string, formula models.Formula, p models.FinancialPeriod) error {
	q := fmt.Sprintf(`
        INSERT INTO %s (
            ticker, fiscal_year, fiscal_period, formula,
            revenue, gross_profit, net_income, ebit,
            total_assets, total_liabilities, current_assets, current_liabilities,
            long_term_debt, retained_earnings, shares_outstanding,
            market_cap, book_equity, operating_cash_flow, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, s.table)
	_, err := s.db.ExecContext(ctx, q,
		ticker, p.FiscalYear, p.FiscalPeriod, string(formula),
		nf(p.Revenue), nf(p.GrossProfit), nf(p.NetIncome), nf(p.EBIT),
		nf(p.TotalAssets), nf(p.TotalLiabilities), nf(p.CurrentAssets), nf(p.CurrentLiabilities),
		nf(p.LongTermDebt), nf(p.RetainedEarnings), nf(p.SharesOutstanding),
		nf(p.MarketCap), nf(p.BookEquity), nf(p.OperatingCashFlow), time.Now().UTC(),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse fact insert error",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// Periods returns the two most recent annual periods for a ticker, newest
// first in (current, prior) order. A ticker with a single period still
// scores; the calculators degrade the year-over-year signals.
func (s *CHFactsSource) Periods(ctx context.Context, ticker string) (models.FinancialPeriod, models.FinancialPeriod, error) {
	q := fmt.Sprintf(`
        SELECT fiscal_year, fiscal_period,
               revenue, gross_profit, net_income, ebit,
               total_assets, total_liabilities, current_assets, current_liabilities,
               long_term_debt, retained_earnings, shares_outstanding,
               market_cap, book_equity, operating_cash_flow
        FROM %s FINAL
        WHERE ticker = ? AND fiscal_period = 'FY'
        ORDER BY fiscal_year DESC
        LIMIT 2
    `, s.table)

	rows, err := s.db.QueryContext(ctx, q, ticker)
	if err != nil {
		return models.FinancialPeriod{}, models.FinancialPeriod{}, fmt.Errorf("fact periods: %w", err)
	}
	defer rows.Close()

	var periods []models.FinancialPeriod
	for rows.Next() {
		var p models.FinancialPeriod
		var revenue, grossProfit, netIncome, ebit sql.NullFloat64
		var totalAssets, totalLiabilities, currentAssets, currentLiabilities sql.NullFloat64
		var longTermDebt, retainedEarnings, sharesOutstanding sql.NullFloat64
		var marketCap, bookEquity, operatingCashFlow sql.NullFloat64
		if err := rows.Scan(
			&p.FiscalYear, &p.FiscalPeriod,
			&revenue, &grossProfit, &netIncome, &ebit,
			&totalAssets, &totalLiabilities, &currentAssets, &currentLiabilities,
			&longTermDebt, &retainedEarnings, &sharesOutstanding,
			&marketCap, &bookEquity, &operatingCashFlow,
		); err != nil {
			return models.FinancialPeriod{}, models.FinancialPeriod{}, fmt.Errorf("scan fact: %w", err)
		}
		p.Revenue = fp(revenue)
		p.GrossProfit = fp(grossProfit)
		p.NetIncome = fp(netIncome)
		p.EBIT = fp(ebit)
		p.TotalAssets = fp(totalAssets)
		p.TotalLiabilities = fp(totalLiabilities)
		p.CurrentAssets = fp(currentAssets)
		p.CurrentLiabilities = fp(currentLiabilities)
		p.LongTermDebt = fp(longTermDebt)
		p.RetainedEarnings = fp(retainedEarnings)
		p.SharesOutstanding = fp(sharesOutstanding)
		p.MarketCap = fp(marketCap)
		p.BookEquity = fp(bookEquity)
		p.OperatingCashFlow = fp(operatingCashFlow)
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return models.FinancialPeriod{}, models.FinancialPeriod{}, fmt.Errorf("rows: %w", err)
	}

	switch len(periods) {
	case 0:
		return models.FinancialPeriod{}, models.FinancialPeriod{}, fmt.Errorf("no facts recorded for %s", ticker)
	case 1:
		return periods[0], models.FinancialPeriod{}, nil
	default:
		return periods[0], periods[1], nil
	}
}

// Classify returns the coefficient formula recorded with the ticker's most
// recent fact row.
func (s *CHFactsSource) Classify(ctx context.Context, ticker string) (models.Formula, error) {
	q := fmt.Sprintf(`
        SELECT formula FROM %s FINAL
        WHERE ticker = ?
        ORDER BY fiscal_year DESC
        LIMIT 1
    `, s.table)
	var formula string
	if err := s.db.QueryRowContext(ctx, q, ticker).Scan(&formula); err != nil {
		return "", fmt.Errorf("classify %s: %w", ticker, err)
	}
	f := models.Formula(formula)
	if f != models.FormulaNonManufacturing {
		f = models.FormulaManufacturing
	}
	return f, nil
}

func nf(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fp(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var (
	_ domsvc.FinancialDataSource = (*CHFactsSource)(nil)
	_ domsvc.IndustryClassifier  = (*CHFactsSource)(nil)
)
