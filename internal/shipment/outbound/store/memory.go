package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
)

// Memory keeps shipments in a map. It backs tests and local runs without a
// database.
type Memory struct {
	tracer
	mu   sync.RWMutex
	data map[string]entity.Shipment
}

func NewMemory(ins instrument.Instrumentation) *Memory {
	return &Memory{
		tracer: tracer{ins: ins, system: "memory"},
		data:   make(map[string]entity.Shipment),
	}
}

func matches(s entity.Shipment, filter map[string]string) bool {
	if status, ok := filter[entity.FilterStatus]; ok && string(s.Status) != status {
		return false
	}
	return true
}

func compareBy(field string) func(a, b entity.Shipment) int {
	return func(a, b entity.Shipment) int {
		var c int
		switch field {
		case entity.SortEstimatedDelivery:
			// missing dates sort before any date, as in mongo
			switch {
			case a.EstimatedDelivery == nil && b.EstimatedDelivery == nil:
			case a.EstimatedDelivery == nil:
				c = -1
			case b.EstimatedDelivery == nil:
				c = 1
			default:
				c = a.EstimatedDelivery.Compare(*b.EstimatedDelivery)
			}
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	}
}

func (m *Memory) Find(ctx context.Context, q paginate.Query) (items []entity.Shipment, err error) {
	_, span := m.startSpan(ctx, "Find")
	defer func() { m.endSpan(span, err) }()

	m.mu.RLock()
	items = lo.Filter(lo.Values(m.data), func(s entity.Shipment, _ int) bool {
		return matches(s, q.Filter)
	})
	m.mu.RUnlock()

	compare := compareBy(q.SortBy)
	slices.SortFunc(items, func(a, b entity.Shipment) int {
		if q.Descending() {
			return compare(b, a)
		}
		return compare(a, b)
	})

	skip := int(min(q.Skip(), int64(len(items))))
	end := len(items)
	if q.Limit > 0 {
		end = min(skip+q.Limit, len(items))
	}
	return slices.Clone(items[skip:end]), nil
}

func (m *Memory) Count(ctx context.Context, filter map[string]string) (n int64, err error) {
	_, span := m.startSpan(ctx, "Count")
	defer func() { m.endSpan(span, err) }()

	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(lo.CountBy(lo.Values(m.data), func(s entity.Shipment) bool {
		return matches(s, filter)
	})), nil
}

func (m *Memory) Create(ctx context.Context, s entity.Shipment) (err error) {
	_, span := m.startSpan(ctx, "Create")
	defer func() { m.endSpan(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[s.ID]; exists {
		return goerror.ErrConflict
	}
	m.data[s.ID] = s
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (_ *entity.Shipment, err error) {
	_, span := m.startSpan(ctx, "Get")
	defer func() { m.endSpan(span, err) }()

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.data[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (_ *entity.Shipment, err error) {
	_, span := m.startSpan(ctx, "Update")
	defer func() { m.endSpan(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.data[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	s = patch.Apply(s, updatedAt)
	m.data[id] = s
	return &s, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (err error) {
	_, span := m.startSpan(ctx, "Delete")
	defer func() { m.endSpan(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[id]; !ok {
		return goerror.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
