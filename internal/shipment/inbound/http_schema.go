package inbound

import (
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

var (
	createSchema = validator.NewSchema(
		validator.String("origin", "min=1").Required().Trim().
			Message("required", "Origin is required").
			Message("min", "Origin is required"),
		validator.String("destination", "min=1").Required().Trim().
			Message("required", "Destination is required").
			Message("min", "Destination is required"),
		validator.String("status", entity.StatusOneOf),
		validator.Time("estimatedDelivery"),
	)

	updateSchema = validator.NewSchema(
		validator.String("origin", "min=3").Trim(),
		validator.String("destination", "min=3").Trim(),
		validator.String("status", entity.StatusOneOf),
		validator.Time("estimatedDelivery"),
	)

	querySchema = validator.NewSchema(
		paginate.Rules(entity.SortCreatedAt, entity.SortCreatedAt, entity.SortEstimatedDelivery)...,
	).Extend(
		validator.String(entity.FilterStatus, entity.StatusOneOf),
	)
)
