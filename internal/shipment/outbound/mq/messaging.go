package mq

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/messaging"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID = "cID"
	keyOfEventType     = "type"
)

// ShipmentMessage is the wire form of a shipment event.
type ShipmentMessage struct {
	Type       string           `json:"type"`
	ShipmentID string           `json:"shipmentId"`
	Shipment   *ShipmentPayload `json:"shipment,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

type ShipmentPayload struct {
	ID                string     `json:"id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type Messaging struct {
	client messaging.Publisher
	topic  string
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, topic string, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, topic: topic, ins: ins}
}

func newShipmentMessage(ev entity.ShipmentEvent) ShipmentMessage {
	msg := ShipmentMessage{
		Type:       string(ev.Type),
		ShipmentID: ev.ShipmentID,
		OccurredAt: ev.OccurredAt,
	}
	if s := ev.Shipment; s != nil {
		msg.Shipment = &ShipmentPayload{
			ID:                s.ID,
			Origin:            s.Origin,
			Destination:       s.Destination,
			Status:            s.Status.String(),
			EstimatedDelivery: s.EstimatedDelivery,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		}
	}
	return msg
}

func (m *Messaging) PublishShipmentEvent(ctx context.Context, ev entity.ShipmentEvent) error {
	ctx, span := m.ins.Tracer("shipment.outbound.mq").Start(ctx, "PublishShipmentEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.destination.name", m.topic),
		attribute.String("shipment.event", string(ev.Type)),
	)

	body, err := json.Marshal(newShipmentMessage(ev))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, m.topic, messaging.Message{
		Key:  []byte(ev.ShipmentID),
		Body: body,
		Headers: []messaging.Header{
			{Key: keyOfCorrelationID, Value: []byte(cID)},
			{Key: keyOfEventType, Value: []byte(ev.Type)},
		},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
