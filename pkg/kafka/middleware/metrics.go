package kafka_middleware

import (
	"context"
	"time"

	"ambulink/pkg/kafka"
	"ambulink/pkg/observability"
)

const (
	directionPublish = "publish"
	directionConsume = "consume"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		record(directionPublish, msg.Topic, start, err)
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		record(directionConsume, msg.Topic, start, err)
		return err
	}
}

func record(direction, topic string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.KafkaMessagesTotal.WithLabelValues(direction, topic, outcome).Inc()
	observability.KafkaMessageDuration.WithLabelValues(direction, topic).Observe(time.Since(start).Seconds())
}
