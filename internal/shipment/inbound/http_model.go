package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

type ShipmentResponse struct {
	ID                string     `json:"id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toShipmentResponse(s entity.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                s.ID,
		Origin:            s.Origin,
		Destination:       s.Destination,
		Status:            s.Status.String(),
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

type ListResponse struct {
	items []ShipmentResponse
	meta  paginate.Meta
}

func newListResponse(page *paginate.Page[entity.Shipment]) ListResponse {
	return ListResponse{
		items: lo.Map(page.Items, func(s entity.Shipment, _ int) ShipmentResponse {
			return toShipmentResponse(s)
		}),
		meta: page.Meta,
	}
}

func (ListResponse) Message() string { return "Shipments retrieved successfully" }
func (l ListResponse) Payload() any { return l.items }
func (l ListResponse) Pagination() paginate.Meta { return l.meta }

type CreateResponse struct{ shipment ShipmentResponse }

func (CreateResponse) StatusCode() int { return http.StatusCreated }
func (CreateResponse) Message() string { return "Shipment created successfully" }
func (c CreateResponse) Payload() any  { return c.shipment }

type DetailResponse struct{ shipment ShipmentResponse }

func (DetailResponse) Message() string { return "Shipment retrieved successfully" }
func (d DetailResponse) Payload() any  { return d.shipment }

type UpdateResponse struct{ shipment ShipmentResponse }

func (UpdateResponse) Message() string { return "Shipment updated successfully" }
func (u UpdateResponse) Payload() any  { return u.shipment }

type DeleteResponse struct{}

func (DeleteResponse) Message() string { return "Shipment deleted successfully" }
func (DeleteResponse) Payload() any    { return nil }

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (HealthResponse) Message() string { return "goship API is healthy" }
