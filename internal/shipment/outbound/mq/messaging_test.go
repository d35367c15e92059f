package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/messaging"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic string
	msg   messaging.Message
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msg messaging.Message) (messaging.PublishResult, error) {
	p.topic, p.msg = topic, msg
	return messaging.PublishResult{Topic: topic}, p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestMessaging_PublishShipmentEvent(t *testing.T) {
	// Arrange
	pub := &recordingPublisher{}
	m := NewMessaging(pub, "goship.shipments", instrument.NewNoop())
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	ctx := instrument.SetCorrelationID(context.Background(), "cid-7")

	// Act
	err := m.PublishShipmentEvent(ctx, entity.ShipmentEvent{
		Type:       entity.EventShipmentCreated,
		ShipmentID: "abc",
		Shipment:   &entity.Shipment{ID: "abc", Origin: "Lagos", Destination: "Accra", Status: entity.StatusPending, CreatedAt: at, UpdatedAt: at},
		OccurredAt: at,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "goship.shipments", pub.topic)
	assert.Equal(t, []byte("abc"), pub.msg.Key)
	assert.Equal(t, []messaging.Header{
		{Key: "cID", Value: []byte("cid-7")},
		{Key: "type", Value: []byte("shipment.created")},
	}, pub.msg.Headers)

	var got ShipmentMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "shipment.created", got.Type)
	require.NotNil(t, got.Shipment)
	assert.Equal(t, "Lagos", got.Shipment.Origin)
	assert.Nil(t, got.Shipment.EstimatedDelivery)
}

func TestMessaging_PublishDeleteAndFailure(t *testing.T) {
	boom := errors.New("broker down")
	pub := &recordingPublisher{err: boom}
	m := NewMessaging(pub, "goship.shipments", instrument.NewNoop())

	err := m.PublishShipmentEvent(context.Background(), entity.ShipmentEvent{Type: entity.EventShipmentDeleted, ShipmentID: "abc"})

	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, string(pub.msg.Body), `"shipment"`)
}
