package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

const msgShipmentNotFound = "Shipment not found"

func (s *Usecase) Detail(ctx context.Context, id string) (*entity.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Detail")
	defer span.End()

	shipment, err := s.repoStore.Get(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewNotFound(msgShipmentNotFound)
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return shipment, nil
}
