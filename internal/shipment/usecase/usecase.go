package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/clock"
	"github.com/shandysiswandi/goship/internal/pkg/goroutine"
	"github.com/shandysiswandi/goship/internal/pkg/idempotency"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/pkg/uid"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	paginate.Source[entity.Shipment]

	Create(ctx context.Context, s entity.Shipment) error
	Get(ctx context.Context, id string) (*entity.Shipment, error)
	Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (*entity.Shipment, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type repoMessaging interface {
	PublishShipmentEvent(ctx context.Context, ev entity.ShipmentEvent) error
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	oid           uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	OID           uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		oid:           dep.OID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("shipment.usecase").Start(ctx, name)
}

// publish sends ev in the background. The request context is detached so
// the event survives the response; failures are only logged.
func (s *Usecase) publish(ctx context.Context, ev entity.ShipmentEvent) {
	err := s.goroutine.Go(context.WithoutCancel(ctx), string(ev.Type), func(ctx context.Context) error {
		return s.repoMessaging.PublishShipmentEvent(ctx, ev)
	})
	if err != nil {
		slog.WarnContext(ctx, "shipment event dropped", "event", ev.Type, "shipment_id", ev.ShipmentID, "error", err)
	}
}
