package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/idempotency"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

type CreateInput struct {
	Origin            string
	Destination       string
	Status            entity.Status // empty means pending
	EstimatedDelivery *time.Time
	IdempotencyKey    string
}

func (s *Usecase) Create(ctx context.Context, in CreateInput) (*entity.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	status := in.Status
	if status == "" {
		status = entity.StatusPending
	}

	now := s.clock.Now().UTC()
	shipment := entity.Shipment{
		ID:                s.oid.Generate(),
		Origin:            in.Origin,
		Destination:       in.Destination,
		Status:            status,
		EstimatedDelivery: in.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	create := func(ctx context.Context) error {
		return s.repoStore.Create(ctx, shipment)
	}

	var err error
	if in.IdempotencyKey != "" {
		err = s.idemp.Exec(ctx, "shipment:create:"+in.IdempotencyKey, create)
	} else {
		err = create(ctx)
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("Request with this Idempotency-Key is already in progress", http.StatusConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		return nil, goerror.NewBusiness("Request with this Idempotency-Key was already processed", http.StatusConflict)
	case errors.Is(err, goerror.ErrConflict):
		return nil, goerror.NewBusiness("Shipment already exists", http.StatusConflict)
	case err != nil:
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, entity.ShipmentEvent{
		Type:       entity.EventShipmentCreated,
		ShipmentID: shipment.ID,
		Shipment:   &shipment,
		OccurredAt: now,
	})

	return &shipment, nil
}
