package usecase

import (
	"context"
	"fmt"

	"FinSight/pkg/queue"
)

// RefreshJobType is the queue message type for batch refresh requests.
const RefreshJobType = "score.refresh"

// RefreshEnqueuer publishes refresh requests onto the job queue. Satisfied
// by queue.QueueService.
type RefreshEnqueuer interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}

// RefreshPayload is the queue payload enqueued by the HTTP layer.
type RefreshPayload struct {
	Tickers []string `json:"tickers"`
}

// RefreshJob executes queued batch refreshes off the request path.
type RefreshJob struct {
	refresher *ScoreRefresher
}

func NewRefreshJob(refresher *ScoreRefresher) *RefreshJob {
	return &RefreshJob{refresher: refresher}
}

func (j *RefreshJob) Name() string { return "score_refresher" }

func (j *RefreshJob) Type() string { return RefreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("parse refresh payload: %w", err)
	}
	if len(p.Tickers) == 0 {
		return nil
	}
	summary := j.refresher.Refresh(ctx, p.Tickers)
	if summary.Failed > 0 && summary.Scored == 0 && summary.NoData == 0 {
		// All-failed batches retry via the queue's backoff.
		return fmt.Errorf("refresh failed for all %d tickers", summary.Requested)
	}
	return nil
}

var _ queue.Job = (*RefreshJob)(nil)
