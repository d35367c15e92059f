package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

func (s *Usecase) Update(ctx context.Context, id string, patch entity.ShipmentPatch) (*entity.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Update")
	defer span.End()

	now := s.clock.Now().UTC()
	shipment, err := s.repoStore.Update(ctx, id, patch, now)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewNotFound(msgShipmentNotFound)
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, entity.ShipmentEvent{
		Type:       entity.EventShipmentUpdated,
		ShipmentID: shipment.ID,
		Shipment:   shipment,
		OccurredAt: now,
	})

	return shipment, nil
}
