package messaging

import (
	"context"
	"time"
)

// Noop accepts and discards every message.
type Noop struct{}

func (Noop) Publish(ctx context.Context, topic string, _ Message) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if topic == "" {
		return PublishResult{}, ErrTopicRequired
	}
	return PublishResult{Topic: topic, Timestamp: time.Now()}, nil
}

func (Noop) Close() error {
	return nil
}
