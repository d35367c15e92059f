package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrTopicRequired is returned when Publish receives an empty destination.
var ErrTopicRequired = errors.New("messaging: topic is required")

// Publisher sends messages to a broker destination (kafka topic or nats subject).
type Publisher interface {
	io.Closer

	Publish(ctx context.Context, topic string, msg Message) (PublishResult, error)
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	// Key is used by kafka for partitioning and ignored by nats.
	Key     []byte
	Body    []byte
	Headers []Header
}

// Header is a key/value pair carried with a message.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries what the broker reported for an accepted message.
type PublishResult struct {
	Topic     string
	Timestamp time.Time
}
