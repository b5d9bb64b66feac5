package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaSender publishes messages keyed by order code so every message of one order
// lands on the same partition.
type KafkaSender struct {
	Publisher Publisher
	Topic     string
}

func (s *KafkaSender) Send(ctx context.Context, m Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return s.Publisher.PublishEvent(ctx, s.Topic, m.OrderCode, m)
}
