package inbound

import (
	"context"

	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/pkg/router"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"github.com/shandysiswandi/goship/internal/shipment/usecase"
)

type uc interface {
	List(ctx context.Context, q paginate.Query) (*paginate.Page[entity.Shipment], error)
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Shipment, error)
	Detail(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, id string, patch entity.ShipmentPatch) (*entity.Shipment, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) (*usecase.HealthOutput, error)
}

// prefixes the shipment routes are mounted under
var prefixes = []string{"", "/api"}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}
	objectID := r.ValidateObjectID("id")

	for _, p := range prefixes {
		r.GET(p+"/health", end.Health)

		r.GET(p+"/shipments", end.List, r.Validate(router.SourceQuery, querySchema))
		r.POST(p+"/shipments", end.Create, r.Validate(router.SourceBody, createSchema))
		r.GET(p+"/shipments/:id", end.Detail, objectID)
		r.PUT(p+"/shipments/:id", end.Update, objectID, r.Validate(router.SourceBody, updateSchema))
		r.DELETE(p+"/shipments/:id", end.Delete, objectID)
	}
}
