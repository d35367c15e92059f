package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/clock"
	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/goroutine"
	"github.com/shandysiswandi/goship/internal/pkg/idempotency"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testID = "65a1b2c3d4e5f60718293a4b"

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type mockStore struct{ mock.Mock }

func (m *mockStore) Find(ctx context.Context, q paginate.Query) ([]entity.Shipment, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]entity.Shipment)
	return items, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, filter map[string]string) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, s entity.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id string) (*entity.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Shipment)
	return s, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (*entity.Shipment, error) {
	args := m.Called(ctx, id, patch, updatedAt)
	s, _ := args.Get(0).(*entity.Shipment)
	return s, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockMessaging struct{ mock.Mock }

func (m *mockMessaging) PublishShipmentEvent(ctx context.Context, ev entity.ShipmentEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type mockIdempotency struct{ mock.Mock }

func (m *mockIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error) error {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type fixture struct {
	uc    *Usecase
	store *mockStore
	msg   *mockMessaging
	idemp *mockIdempotency
	gm    *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: &mockStore{},
		msg:   &mockMessaging{},
		idemp: &mockIdempotency{},
		gm:    goroutine.NewManager(4),
	}
	f.uc = New(Dependency{
		RepoStore:     f.store,
		RepoMessaging: f.msg,
		Idempotency:   f.idemp,
		OID:           fixedID(testID),
		Clock:         clock.Fixed(testNow),
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	})
	return f
}

// wait drains background publishes before mock expectations are checked.
func (f *fixture) wait(t *testing.T) {
	t.Helper()
	require.NoError(t, f.gm.Wait(context.Background()))
	f.store.AssertExpectations(t)
	f.msg.AssertExpectations(t)
	f.idemp.AssertExpectations(t)
}

func assertOperational(t *testing.T, err error, status int, msg string) {
	t.Helper()
	gerr := goerror.From(err)
	require.NotNil(t, gerr)
	assert.Equal(t, goerror.KindOperational, gerr.Kind())
	assert.Equal(t, status, gerr.StatusCode())
	assert.Equal(t, msg, gerr.Msg())
}

func TestUsecase_Create(t *testing.T) {
	t.Run("defaults to pending", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		want := entity.Shipment{
			ID:          testID,
			Origin:      "Lagos",
			Destination: "Accra",
			Status:      entity.StatusPending,
			CreatedAt:   testNow,
			UpdatedAt:   testNow,
		}
		f.store.On("Create", mock.Anything, want).Return(nil)
		f.msg.On("PublishShipmentEvent", mock.Anything, mock.MatchedBy(func(ev entity.ShipmentEvent) bool {
			return ev.Type == entity.EventShipmentCreated && ev.ShipmentID == testID
		})).Return(nil)

		// Act
		got, err := f.uc.Create(context.Background(), CreateInput{Origin: "Lagos", Destination: "Accra"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, &want, got)
		f.wait(t)
	})

	t.Run("store failure is internal and publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.uc.Create(context.Background(), CreateInput{Origin: "Lagos", Destination: "Accra"})

		gerr := goerror.From(err)
		assert.Equal(t, goerror.KindInternal, gerr.Kind())
		assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
		f.wait(t)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.msg.On("PublishShipmentEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		got, err := f.uc.Create(context.Background(), CreateInput{Origin: "Lagos", Destination: "Accra", Status: entity.StatusInTransit})

		require.NoError(t, err)
		assert.Equal(t, entity.StatusInTransit, got.Status)
		f.wait(t)
	})

	t.Run("idempotency key runs through tracker", func(t *testing.T) {
		f := newFixture(t)
		f.idemp.On("Exec", mock.Anything, "shipment:create:abc").Return(nil)
		f.store.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.msg.On("PublishShipmentEvent", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.Create(context.Background(), CreateInput{Origin: "Lagos", Destination: "Accra", IdempotencyKey: "abc"})

		require.NoError(t, err)
		f.wait(t)
	})

	t.Run("idempotency replay", func(t *testing.T) {
		tests := []struct {
			err error
			msg string
		}{
			{err: idempotency.ErrAlreadyInProgress, msg: "Request with this Idempotency-Key is already in progress"},
			{err: idempotency.ErrAlreadyCompleted, msg: "Request with this Idempotency-Key was already processed"},
		}
		for _, tt := range tests {
			f := newFixture(t)
			f.idemp.On("Exec", mock.Anything, "shipment:create:abc").Return(tt.err)

			_, err := f.uc.Create(context.Background(), CreateInput{Origin: "Lagos", Destination: "Accra", IdempotencyKey: "abc"})

			assertOperational(t, err, http.StatusConflict, tt.msg)
			f.wait(t)
		}
	})
}

func TestUsecase_List(t *testing.T) {
	t.Run("page math and default sort", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		q := paginate.Query{Page: 2, Limit: 10, SortOrder: paginate.OrderDesc, Filter: map[string]string{"status": "pending"}}
		want := q
		want.SortBy = entity.SortCreatedAt
		items := []entity.Shipment{{ID: "a"}, {ID: "b"}}
		f.store.On("Find", mock.Anything, want).Return(items, nil)
		f.store.On("Count", mock.Anything, q.Filter).Return(int64(25), nil)

		// Act
		page, err := f.uc.List(context.Background(), q)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, items, page.Items)
		assert.Equal(t, paginate.Meta{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, page.Meta)
		f.wait(t)
	})

	t.Run("count failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Find", mock.Anything, mock.Anything).Return([]entity.Shipment{}, nil).Maybe()
		f.store.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

		_, err := f.uc.List(context.Background(), paginate.Query{Page: 1, Limit: 10})

		assert.Equal(t, goerror.KindInternal, goerror.From(err).Kind())
		f.wait(t)
	})
}

func TestUsecase_Detail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		want := &entity.Shipment{ID: testID}
		f.store.On("Get", mock.Anything, testID).Return(want, nil)

		got, err := f.uc.Detail(context.Background(), testID)

		require.NoError(t, err)
		assert.Same(t, want, got)
		f.wait(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", mock.Anything, testID).Return(nil, goerror.ErrNotFound)

		_, err := f.uc.Detail(context.Background(), testID)

		assertOperational(t, err, http.StatusNotFound, "Shipment not found")
		f.wait(t)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", mock.Anything, testID).Return(nil, context.DeadlineExceeded)

		_, err := f.uc.Detail(context.Background(), testID)

		assert.Equal(t, http.StatusInternalServerError, goerror.From(err).StatusCode())
		assert.False(t, goerror.From(err).IsOperational())
		f.wait(t)
	})
}

func TestUsecase_Update(t *testing.T) {
	t.Run("stores the patch as given and publishes", func(t *testing.T) {
		f := newFixture(t)
		origin := "Kano"
		updated := &entity.Shipment{ID: testID, Origin: origin}
		f.store.On("Update", mock.Anything, testID, entity.ShipmentPatch{Origin: &origin}, testNow).Return(updated, nil)
		f.msg.On("PublishShipmentEvent", mock.Anything, mock.MatchedBy(func(ev entity.ShipmentEvent) bool {
			return ev.Type == entity.EventShipmentUpdated
		})).Return(nil)

		got, err := f.uc.Update(context.Background(), testID, entity.ShipmentPatch{Origin: &origin})

		require.NoError(t, err)
		assert.Same(t, updated, got)
		f.wait(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Update", mock.Anything, testID, entity.ShipmentPatch{}, testNow).Return(nil, goerror.ErrNotFound)

		_, err := f.uc.Update(context.Background(), testID, entity.ShipmentPatch{})

		assertOperational(t, err, http.StatusNotFound, "Shipment not found")
		f.wait(t)
	})
}

func TestUsecase_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Delete", mock.Anything, testID).Return(nil)
		f.msg.On("PublishShipmentEvent", mock.Anything, entity.ShipmentEvent{
			Type:       entity.EventShipmentDeleted,
			ShipmentID: testID,
			OccurredAt: testNow,
		}).Return(nil)

		require.NoError(t, f.uc.Delete(context.Background(), testID))
		f.wait(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Delete", mock.Anything, testID).Return(goerror.ErrNotFound)

		assertOperational(t, f.uc.Delete(context.Background(), testID), http.StatusNotFound, "Shipment not found")
		f.wait(t)
	})
}

func TestUsecase_Health(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Ping", mock.Anything).Return(nil)

		got, err := f.uc.Health(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &HealthOutput{Status: "OK", Timestamp: testNow}, got)
		f.wait(t)
	})

	t.Run("store down", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Ping", mock.Anything).Return(errors.New("no reachable servers"))

		_, err := f.uc.Health(context.Background())

		assertOperational(t, err, http.StatusServiceUnavailable, "Store unavailable")
		f.wait(t)
	})
}
