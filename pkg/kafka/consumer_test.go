package kafka

import (
	"context"
	"testing"
	"time"
)

func TestStopWaitsForDispatchingReaders(t *testing.T) {
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerBufferSize(1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fill the inbox so the next dispatch spins under backpressure.
	if !c.dispatch(envelope{topic: "t"}) {
		t.Fatal("first dispatch should enqueue")
	}

	released := make(chan bool, 1)
	c.readerWg.Add(1)
	go func() {
		defer c.readerWg.Done()
		released <- c.dispatch(envelope{topic: "t"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case ok := <-released:
		if ok {
			t.Fatal("dispatch should report stop, not enqueue")
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch did not observe stop")
	}

	// The inbox closes only after every reader has exited, so draining it is
	// safe and yields exactly the envelope buffered before shutdown.
	n := 0
	for range c.inbox {
		n++
	}
	if n != 1 {
		t.Fatalf("expected 1 buffered envelope, got %d", n)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
