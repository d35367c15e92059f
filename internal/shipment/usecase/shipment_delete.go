package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

func (s *Usecase) Delete(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	err := s.repoStore.Delete(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewNotFound(msgShipmentNotFound)
	}
	if err != nil {
		return goerror.NewServer(err)
	}

	s.publish(ctx, entity.ShipmentEvent{
		Type:       entity.EventShipmentDeleted,
		ShipmentID: id,
		OccurredAt: s.clock.Now().UTC(),
	})

	return nil
}
