package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgch "FinSight/pkg/clickhouse"
	applogger "FinSight/pkg/logger"
)

// CHScoreHistoryStore implements ScoreHistoryStore backed by ClickHouse.
// Re-scored periods are handled by ReplacingMergeTree on recorded_at, so the
// engine can treat the store as append-only.
type CHScoreHistoryStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHScoreHistoryStore(ch *pkgch.Client, table string) *CHScoreHistoryStore {
	return &CHScoreHistoryStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHScoreHistoryStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHScoreHistoryStore) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ticker                  String,
            fiscal_year             UInt16,
            fiscal_period           LowCardinality(String),
            piotroski_score         Int8,
            piotroski_profitability Int8,
            piotroski_leverage      Int8,
            piotroski_efficiency    Int8,
            altman_z_score          Float64,
            altman_zone             LowCardinality(String),
            altman_formula          LowCardinality(String),
            recorded_at             DateTime
        ) ENGINE = ReplacingMergeTree(recorded_at)
        ORDER BY (ticker, fiscal_year, fiscal_period)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init score history schema: %w", err)
	}
	return s.Health(ctx)
}

func (s *CHScoreHistoryStore) Save(ctx context.Context, rec models.ScoreHistoryRecord) error {
	return s.SaveBatch(ctx, []models.ScoreHistoryRecord{rec})
}

func (s *CHScoreHistoryStore) SaveBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	q := fmt.Sprintf(`
        INSERT INTO %s (
            ticker, fiscal_year, fiscal_period,
            piotroski_score, piotroski_profitability, piotroski_leverage, piotroski_efficiency,
            altman_z_score, altman_zone, altman_formula, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, s.table)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		recordedAt := r.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			r.Ticker, r.FiscalYear, r.FiscalPeriod,
			r.PiotroskiScore, r.PiotroskiProfitability, r.PiotroskiLeverage, r.PiotroskiEfficiency,
			r.AltmanZScore, string(r.AltmanZone), string(r.AltmanFormula), recordedAt,
		); err != nil {
			_ = tx.Rollback()
			if s.l != nil {
				s.l.Error("clickhouse score insert error",
					applogger.String("ticker", r.Ticker), applogger.Error(err))
			}
			return fmt.Errorf("insert score: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse score batch stored",
			applogger.Int("rows", len(recs)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHScoreHistoryStore) History(ctx context.Context, ticker string, minYear int, periodType string) ([]models.ScoreHistoryRecord, error) {
	start := time.Now()

	periodFilter := "fiscal_period = 'FY'"
	if periodType == "Q" {
		periodFilter = "fiscal_period IN ('Q1', 'Q2', 'Q3', 'Q4')"
	}
	q := fmt.Sprintf(`
        SELECT ticker, fiscal_year, fiscal_period,
               piotroski_score, piotroski_profitability, piotroski_leverage, piotroski_efficiency,
               altman_z_score, altman_zone, altman_formula, recorded_at
        FROM %s FINAL
        WHERE ticker = ? AND fiscal_year >= ? AND %s
        ORDER BY fiscal_year ASC, fiscal_period ASC
    `, s.table, periodFilter)

	rows, err := s.db.QueryContext(ctx, q, ticker, minYear)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse score history query error",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
		return nil, fmt.Errorf("score history: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScoreHistoryRecord, 0, 16)
	for rows.Next() {
		var r models.ScoreHistoryRecord
		var zone, formula string
		if err := rows.Scan(
			&r.Ticker, &r.FiscalYear, &r.FiscalPeriod,
			&r.PiotroskiScore, &r.PiotroskiProfitability, &r.PiotroskiLeverage, &r.PiotroskiEfficiency,
			&r.AltmanZScore, &zone, &formula, &r.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score record: %w", err)
		}
		r.AltmanZone = models.Zone(zone)
		r.AltmanFormula = models.Formula(formula)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Debug("clickhouse score history ok",
			applogger.String("ticker", ticker),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHScoreHistoryStore) Tickers(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT ticker FROM %s ORDER BY ticker", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHScoreHistoryStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHScoreHistoryStore) Close() error {
	// Connection pool is owned by pkg/clickhouse.Client.
	return nil
}

var _ domrepo.ScoreHistoryStore = (*CHScoreHistoryStore)(nil)
