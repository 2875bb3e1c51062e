package kafka

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ambulink/pkg/logger"
)

func newTestConsumer(handler MessageHandler, maxRetries int) *Consumer {
	return &Consumer{
		topic:        "booking-events",
		groupID:      "test",
		maxRetries:   maxRetries,
		retryBackoff: time.Millisecond,
		handler:      handler,
		log:          logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func TestProcessMessage_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return errors.New("mongo: connection reset")
		}
		return nil
	}, 3)

	if err := c.processMessage(context.Background(), Message{Headers: map[string]string{}}); err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestProcessMessage_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		attempts++
		return errors.New("still failing")
	}, 2)

	if err := c.processMessage(context.Background(), Message{Headers: map[string]string{}}); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 1 + 2 retries", attempts)
	}
}

func TestProcessMessage_PermanentFailureIsNotRetried(t *testing.T) {
	attempts := 0
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		attempts++
		return NewPermanentError("undecodable", nil)
	}, 5)

	_ = c.processMessage(context.Background(), Message{Headers: map[string]string{}})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestProcessMessage_MiddlewareOrder(t *testing.T) {
	var order []string
	c := newTestConsumer(func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	}, 0)
	for _, name := range []string{"outer", "inner"} {
		name := name
		c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	if err := c.processMessage(context.Background(), Message{Headers: map[string]string{}}); err != nil {
		t.Fatalf("processMessage: %v", err)
	}
	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}
