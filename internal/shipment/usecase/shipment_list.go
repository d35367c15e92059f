package usecase

import (
	"context"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

func (s *Usecase) List(ctx context.Context, q paginate.Query) (*paginate.Page[entity.Shipment], error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if q.SortBy == "" {
		q.SortBy = entity.SortCreatedAt
	}

	page, err := paginate.Run(ctx, s.repoStore, q)
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return page, nil
}
