package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

// hexID builds deterministic 24-hex ids.
func hexID(n int) string {
	return fmt.Sprintf("%024x", n)
}

func seed(t *testing.T, s Store) []entity.Shipment {
	t.Helper()

	statuses := []entity.Status{entity.StatusPending, entity.StatusInTransit, entity.StatusPending, entity.StatusDelivered, entity.StatusPending}
	out := make([]entity.Shipment, 0, len(statuses))
	for i, st := range statuses {
		sh := entity.Shipment{
			ID:          hexID(i + 1),
			Origin:      fmt.Sprintf("Origin %d", i),
			Destination: fmt.Sprintf("Destination %d", i),
			Status:      st,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if i%2 == 0 {
			ed := base.AddDate(0, 0, 10-i)
			sh.EstimatedDelivery = &ed
		}
		require.NoError(t, s.Create(context.Background(), sh))
		out = append(out, sh)
	}
	return out
}

func ids(items []entity.Shipment) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// runContract exercises the behaviour every Store adapter must share.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		s := newStore(t)
		ed := base.AddDate(0, 0, 3)
		want := entity.Shipment{
			ID:                hexID(99),
			Origin:            "Lagos",
			Destination:       "Accra",
			Status:            entity.StatusPending,
			EstimatedDelivery: &ed,
			CreatedAt:         base,
			UpdatedAt:         base,
		}

		require.NoError(t, s.Create(ctx, want))
		got, err := s.Get(ctx, want.ID)

		require.NoError(t, err)
		assert.Equal(t, &want, got)
		assert.ErrorIs(t, s.Create(ctx, want), goerror.ErrConflict)
	})

	t.Run("missing records", func(t *testing.T) {
		s := newStore(t)
		id := hexID(404)

		_, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
		_, err = s.Update(ctx, id, entity.ShipmentPatch{}, base)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id), goerror.ErrNotFound)
	})

	t.Run("find sorts filters and pages", func(t *testing.T) {
		s := newStore(t)
		seeded := seed(t, s)

		newest, err := s.Find(ctx, paginate.Query{Page: 1, Limit: 2, SortBy: entity.SortCreatedAt, SortOrder: paginate.OrderDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{seeded[4].ID, seeded[3].ID}, ids(newest))

		last, err := s.Find(ctx, paginate.Query{Page: 3, Limit: 2, SortBy: entity.SortCreatedAt, SortOrder: paginate.OrderDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{seeded[0].ID}, ids(last))

		beyond, err := s.Find(ctx, paginate.Query{Page: 9, Limit: 2, SortBy: entity.SortCreatedAt, SortOrder: paginate.OrderDesc})
		require.NoError(t, err)
		assert.Empty(t, beyond)

		pending := map[string]string{entity.FilterStatus: "pending"}
		byDelivery, err := s.Find(ctx, paginate.Query{Page: 1, Limit: 10, SortBy: entity.SortEstimatedDelivery, SortOrder: paginate.OrderAsc, Filter: pending})
		require.NoError(t, err)
		assert.Equal(t, []string{seeded[4].ID, seeded[2].ID, seeded[0].ID}, ids(byDelivery))

		n, err := s.Count(ctx, pending)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		all, err := s.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), all)
	})

	t.Run("update keeps untouched fields", func(t *testing.T) {
		s := newStore(t)
		seeded := seed(t, s)
		status := entity.StatusDelivered
		later := base.AddDate(0, 1, 0)

		got, err := s.Update(ctx, seeded[1].ID, entity.ShipmentPatch{Status: &status}, later)

		require.NoError(t, err)
		assert.Equal(t, entity.StatusDelivered, got.Status)
		assert.Equal(t, seeded[1].Origin, got.Origin)
		assert.Equal(t, seeded[1].Destination, got.Destination)
		assert.Equal(t, seeded[1].CreatedAt, got.CreatedAt)
		assert.Equal(t, later, got.UpdatedAt)

		again, err := s.Get(ctx, seeded[1].ID)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("delete then get", func(t *testing.T) {
		s := newStore(t)
		seeded := seed(t, s)

		require.NoError(t, s.Delete(ctx, seeded[0].ID))
		_, err := s.Get(ctx, seeded[0].ID)

		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
