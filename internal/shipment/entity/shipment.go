package entity

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// StatusValues lists every status in lifecycle order.
var StatusValues = []string{
	string(StatusPending),
	string(StatusInTransit),
	string(StatusDelivered),
	string(StatusCancelled),
}

// StatusOneOf is the validator tag accepting any known status.
var StatusOneOf = "oneof=" + strings.Join(StatusValues, " ")

func (s Status) String() string {
	return string(s)
}

// Sortable fields of a shipment list; the first one is the default.
const (
	SortCreatedAt         = "createdAt"
	SortEstimatedDelivery = "estimatedDelivery"
)

// FilterStatus is the list filter key matching Shipment.Status.
const FilterStatus = "status"

type Shipment struct {
	ID                string
	Origin            string
	Destination       string
	Status            Status
	EstimatedDelivery *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ShipmentPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type ShipmentPatch struct {
	Origin            *string
	Destination       *string
	Status            *Status
	EstimatedDelivery *time.Time
}

// Apply returns s with the patch applied and UpdatedAt set to now.
func (p ShipmentPatch) Apply(s Shipment, now time.Time) Shipment {
	if p.Origin != nil {
		s.Origin = *p.Origin
	}
	if p.Destination != nil {
		s.Destination = *p.Destination
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.EstimatedDelivery != nil {
		ed := *p.EstimatedDelivery
		s.EstimatedDelivery = &ed
	}
	s.UpdatedAt = now
	return s
}
