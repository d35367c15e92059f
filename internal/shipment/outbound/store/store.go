// Package store persists shipments. Every adapter reports absence as
// goerror.ErrNotFound and duplicate ids as goerror.ErrConflict.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store is the persistence contract of the shipment module.
type Store interface {
	Find(ctx context.Context, q paginate.Query) ([]entity.Shipment, error)
	Count(ctx context.Context, filter map[string]string) (int64, error)
	Create(ctx context.Context, s entity.Shipment) error
	Get(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (*entity.Shipment, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type tracer struct {
	ins    instrument.Instrumentation
	system string
}

func (t tracer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.ins.Tracer("shipment.outbound.store").Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", t.system)),
	)
}

func (t tracer) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
