package inbound

import (
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/pkg/router"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"github.com/shandysiswandi/goship/internal/shipment/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the shipment resource.
type HTTPEndpoint struct {
	uc uc
}

// Health reports whether the service and its store are reachable.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} router.Envelope{data=HealthResponse}
// @Failure 503 {object} router.Envelope "Store unavailable"
// @Router /health [get]
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	resp, err := h.uc.Health(r.Context())
	if err != nil {
		return nil, err
	}

	return HealthResponse{Status: resp.Status, Timestamp: resp.Timestamp}, nil
}

// List returns one page of shipments.
// @Summary List shipments
// @Tags Shipment
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Status filter"
// @Param sortBy query string false "createdAt or estimatedDelivery" default(createdAt)
// @Param sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} router.PaginatedEnvelope{data=[]ShipmentResponse}
// @Failure 400 {object} router.Envelope "Validation failed"
// @Router /shipments [get]
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	query := paginate.FromValues(r.Valid(router.SourceQuery), entity.FilterStatus)

	page, err := h.uc.List(r.Context(), query)
	if err != nil {
		return nil, err
	}

	return newListResponse(page), nil
}

// Create stores a new shipment.
// @Summary Create shipment
// @Tags Shipment
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body object true "origin, destination, status, estimatedDelivery"
// @Success 201 {object} router.Envelope{data=ShipmentResponse}
// @Failure 400 {object} router.Envelope "Validation failed"
// @Failure 409 {object} router.Envelope "Duplicate request"
// @Router /shipments [post]
func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	body := r.Valid(router.SourceBody)

	in := usecase.CreateInput{IdempotencyKey: r.GetHeader("Idempotency-Key")}
	in.Origin, _ = body.String("origin")
	in.Destination, _ = body.String("destination")
	if v, ok := body.String("status"); ok {
		in.Status = entity.Status(v)
	}
	if v, ok := body.Time("estimatedDelivery"); ok {
		in.EstimatedDelivery = &v
	}

	shipment, err := h.uc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return CreateResponse{shipment: toShipmentResponse(*shipment)}, nil
}

// Detail returns one shipment.
// @Summary Get shipment
// @Tags Shipment
// @Produce json
// @Param id path string true "Shipment id (24 hex)"
// @Success 200 {object} router.Envelope{data=ShipmentResponse}
// @Failure 400 {object} router.Envelope "Invalid id format"
// @Failure 404 {object} router.Envelope "Shipment not found"
// @Router /shipments/{id} [get]
func (h *HTTPEndpoint) Detail(r *router.Request) (any, error) {
	shipment, err := h.uc.Detail(r.Context(), r.GetParam("id"))
	if err != nil {
		return nil, err
	}

	return DetailResponse{shipment: toShipmentResponse(*shipment)}, nil
}

// Update applies a partial change to one shipment.
// @Summary Update shipment
// @Tags Shipment
// @Accept json
// @Produce json
// @Param id path string true "Shipment id (24 hex)"
// @Param request body object true "Fields to change"
// @Success 200 {object} router.Envelope{data=ShipmentResponse}
// @Failure 400 {object} router.Envelope "Validation failed"
// @Failure 404 {object} router.Envelope "Shipment not found"
// @Router /shipments/{id} [put]
func (h *HTTPEndpoint) Update(r *router.Request) (any, error) {
	body := r.Valid(router.SourceBody)

	var patch entity.ShipmentPatch
	if v, ok := body.String("origin"); ok {
		patch.Origin = &v
	}
	if v, ok := body.String("destination"); ok {
		patch.Destination = &v
	}
	if v, ok := body.String("status"); ok {
		status := entity.Status(v)
		patch.Status = &status
	}
	if v, ok := body.Time("estimatedDelivery"); ok {
		patch.EstimatedDelivery = &v
	}

	shipment, err := h.uc.Update(r.Context(), r.GetParam("id"), patch)
	if err != nil {
		return nil, err
	}

	return UpdateResponse{shipment: toShipmentResponse(*shipment)}, nil
}

// Delete removes one shipment.
// @Summary Delete shipment
// @Tags Shipment
// @Produce json
// @Param id path string true "Shipment id (24 hex)"
// @Success 200 {object} router.Envelope
// @Failure 400 {object} router.Envelope "Invalid id format"
// @Failure 404 {object} router.Envelope "Shipment not found"
// @Router /shipments/{id} [delete]
func (h *HTTPEndpoint) Delete(r *router.Request) (any, error) {
	if err := h.uc.Delete(r.Context(), r.GetParam("id")); err != nil {
		return nil, err
	}

	return DeleteResponse{}, nil
}
