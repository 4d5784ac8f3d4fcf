package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	"FinSight/internal/scoring"
	pkgkafka "FinSight/pkg/kafka"
	"FinSight/pkg/util"
)

// FactsRecorder persists raw statement figures so batch refresh can re-score
// them later without the upstream feed.
type FactsRecorder interface {
	SaveFact(ctx context.Context, ticker string, formula models.Formula, p models.FinancialPeriod) error
}

// KafkaFactsHandler consumes financial-statement fact messages produced by
// the upstream ETL and turns each into a scored, persisted history record.
type KafkaFactsHandler struct {
	topic   string
	svc     *ScoreService
	facts   FactsRecorder
	metrics drepo.Metrics
}

func NewKafkaFactsHandler(topic string, svc *ScoreService, metrics drepo.Metrics) *KafkaFactsHandler {
	return &KafkaFactsHandler{topic: topic, svc: svc, metrics: metrics}
}

// SetFactsRecorder enables raw-fact persistence alongside scoring.
func (h *KafkaFactsHandler) SetFactsRecorder(f FactsRecorder) { h.facts = f }

func (h *KafkaFactsHandler) Topic() string { return h.topic }

// incoming message schema:
// {ticker, fiscal_year, fiscal_period, formula, current: {field: value}, prior: {field: value}}
func (h *KafkaFactsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker       string             `json:"ticker"`
		FiscalYear   int                `json:"fiscal_year"`
		FiscalPeriod string             `json:"fiscal_period"`
		Formula      string             `json:"formula"`
		AsOf         string             `json:"as_of"`
		Current      map[string]float64 `json:"current"`
		Prior        map[string]float64 `json:"prior"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.Ticker == "" || m.FiscalYear == 0 {
		h.metrics.RecordError("consumer_invalid")
		return fmt.Errorf("facts message missing ticker or fiscal_year")
	}

	current := models.FinancialPeriodFromMap(m.Current)
	current.FiscalYear = m.FiscalYear
	// ETL producers spell the period label inconsistently (annual, A, q2...).
	if p, ok := util.NormalizeFiscalPeriod(m.FiscalPeriod); ok {
		current.FiscalPeriod = p
	} else {
		current.FiscalPeriod = "FY"
	}
	prior := models.FinancialPeriodFromMap(m.Prior)

	formula := models.Formula(m.Formula)
	if formula != models.FormulaNonManufacturing {
		formula = models.FormulaManufacturing
	}

	if h.facts != nil {
		// Raw facts are kept even when scoring fails; refresh re-reads them.
		if err := h.facts.SaveFact(ctx, m.Ticker, formula, current); err != nil {
			h.metrics.RecordError("facts_store")
		}
	}

	// The ETL stamps as_of with the statement's publication time; replayed
	// messages then upsert rather than append.
	asOf := util.ParseTimeDefault(m.AsOf, time.Now().UTC())

	if _, err := h.svc.ComputeAndStoreAt(ctx, m.Ticker, current, prior, formula, asOf); err != nil {
		if scoring.IsInsufficientData(err) {
			// Expected for sparse filings. Dropping beats a DLQ loop that can
			// never succeed with the same payload.
			h.metrics.RecordError("consumer_insufficient_data")
			return nil
		}
		h.metrics.RecordError("consumer_score")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaFactsHandler)(nil)
