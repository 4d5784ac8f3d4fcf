package queue

import "context"

// Job consumes messages of one type from the queue. Name identifies the job
// in logs; Type is the message-type key it is dispatched on.
type Job interface {
	Name() string
	Type() string
	Handle(ctx context.Context, payload interface{}) error
}
