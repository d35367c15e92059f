// Package messaging publishes domain events to a message broker.
//
// Kafka (segmentio/kafka-go) and NATS (nats-io/nats.go) are supported; an
// empty driver selects Noop so the service runs without a broker.
package messaging
