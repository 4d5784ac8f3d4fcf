package repository

import (
	"context"
	"fmt"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgkafka "FinSight/pkg/kafka"
)

// KafkaScorePublisher emits score records to a Kafka topic, keyed by ticker
// so one ticker's records stay ordered within a partition.
type KafkaScorePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaScorePublisher(producer *pkgkafka.Producer, topic string) *KafkaScorePublisher {
	return &KafkaScorePublisher{producer: producer, topic: topic}
}

type scoreEvent struct {
	Ticker                 string  `json:"ticker"`
	FiscalYear             int     `json:"fiscal_year"`
	FiscalPeriod           string  `json:"fiscal_period"`
	PiotroskiScore         int     `json:"piotroski_score"`
	PiotroskiProfitability int     `json:"piotroski_profitability"`
	PiotroskiLeverage      int     `json:"piotroski_leverage"`
	PiotroskiEfficiency    int     `json:"piotroski_efficiency"`
	AltmanZScore           float64 `json:"altman_z_score"`
	AltmanZone             string  `json:"altman_zone"`
	AltmanFormula          string  `json:"altman_formula"`
	RecordedAt             int64   `json:"recorded_at"`
}

func toEvent(r models.ScoreHistoryRecord) scoreEvent {
	return scoreEvent{
		Ticker:                 r.Ticker,
		FiscalYear:             r.FiscalYear,
		FiscalPeriod:           r.FiscalPeriod,
		PiotroskiScore:         r.PiotroskiScore,
		PiotroskiProfitability: r.PiotroskiProfitability,
		PiotroskiLeverage:      r.PiotroskiLeverage,
		PiotroskiEfficiency:    r.PiotroskiEfficiency,
		AltmanZScore:           r.AltmanZScore,
		AltmanZone:             string(r.AltmanZone),
		AltmanFormula:          string(r.AltmanFormula),
		RecordedAt:             r.RecordedAt.Unix(),
	}
}

func (p *KafkaScorePublisher) Publish(ctx context.Context, rec models.ScoreHistoryRecord) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(rec.Ticker), toEvent(rec)); err != nil {
		return fmt.Errorf("publish score: %w", err)
	}
	return nil
}

func (p *KafkaScorePublisher) PublishBatch(ctx context.Context, recs []models.ScoreHistoryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(recs))
	for _, r := range recs {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(r.Ticker), Value: toEvent(r)})
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish score batch: %w", err)
	}
	return nil
}

func (p *KafkaScorePublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.ScorePublisher = (*KafkaScorePublisher)(nil)
