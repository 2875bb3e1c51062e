// Package events publishes booking lifecycle events.
package events

import (
	"context"
	"fmt"

	"ambulink/pkg/kafka"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"
)

const SchemaVersion = "1"

type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

// MessageWriter is the part of kafka.Producer the publisher needs.
type MessageWriter interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
	source string
}

func NewKafkaPublisher(writer MessageWriter, source string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, source: source}
}

// Publish keys the message by booking id so every event of one booking lands
// on the same partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}
	return p.writer.Publish(ctx, msg)
}

// LogPublisher is used when Kafka is disabled.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event model.BookingEvent) error {
	p.log.Debug("Booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"driver_id", event.DriverID,
		"status", event.Status,
		"previous_status", event.PreviousStatus,
	)
	return nil
}
