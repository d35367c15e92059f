package entity

import "time"

type EventType string

const (
	EventShipmentCreated EventType = "shipment.created"
	EventShipmentUpdated EventType = "shipment.updated"
	EventShipmentDeleted EventType = "shipment.deleted"
)

// ShipmentEvent is published after a store write succeeds. Shipment is nil
// for deletions.
type ShipmentEvent struct {
	Type       EventType
	ShipmentID string
	Shipment   *Shipment
	OccurredAt time.Time
}
