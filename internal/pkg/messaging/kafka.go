package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string
	// WriteTimeout bounds a single publish; zero keeps the kafka-go default.
	WriteTimeout time.Duration
}

// Kafka publishes through one kafka-go writer per topic.
type Kafka struct {
	brokers      []string
	writeTimeout time.Duration

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  bool
}

// NewKafka constructs a Kafka publisher. Connections are opened lazily on
// the first publish to a topic.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	brokers := lo.Compact(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers:      brokers,
		writeTimeout: cfg.WriteTimeout,
		writers:      map[string]*kafka.Writer{},
	}, nil
}

// Close flushes and closes all writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers := lo.Values(k.writers)
	k.writers = nil
	k.mu.Unlock()

	var closeErr error
	for _, w := range writers {
		closeErr = errors.Join(closeErr, w.Close())
	}
	return closeErr
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if topic == "" {
		return PublishResult{}, ErrTopicRequired
	}

	writer, err := k.writer(topic)
	if err != nil {
		return PublishResult{}, err
	}

	kmsg := toKafkaMessage(msg, time.Now())
	if err := writer.WriteMessages(ctx, kmsg); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{Topic: topic, Timestamp: kmsg.Time}, nil
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, io.ErrClosedPipe
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           k.writeTimeout,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = w
	return w, nil
}

func toKafkaMessage(msg Message, now time.Time) kafka.Message {
	headers := lo.FilterMap(msg.Headers, func(h Header, _ int) (kafka.Header, bool) {
		return kafka.Header{Key: h.Key, Value: h.Value}, h.Key != ""
	})

	return kafka.Message{
		Key:     msg.Key,
		Value:   msg.Body,
		Headers: headers,
		Time:    now,
	}
}
