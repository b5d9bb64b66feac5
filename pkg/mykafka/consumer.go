package mykafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type HandlerFunc func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *slog.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r, log: log}, nil
}

// Run fetches messages until ctx is cancelled. A message is committed only after
// handle succeeds; a failing message is logged and committed so the group does not stall.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("kafka: fetch: %w", err)
		}

		if err := handle(ctx, msg); err != nil {
			c.log.Error("kafka_handle_error",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka: commit: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
