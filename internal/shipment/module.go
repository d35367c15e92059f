package shipment

import (
	"github.com/shandysiswandi/goship/internal/pkg/clock"
	"github.com/shandysiswandi/goship/internal/pkg/goroutine"
	"github.com/shandysiswandi/goship/internal/pkg/idempotency"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/messaging"
	"github.com/shandysiswandi/goship/internal/pkg/router"
	"github.com/shandysiswandi/goship/internal/pkg/uid"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
	"github.com/shandysiswandi/goship/internal/shipment/inbound"
	"github.com/shandysiswandi/goship/internal/shipment/outbound/mq"
	"github.com/shandysiswandi/goship/internal/shipment/outbound/store"
	"github.com/shandysiswandi/goship/internal/shipment/usecase"
)

type Dependency struct {
	Store       store.Store                `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Topic       string                     `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	OID         uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Topic, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoStore:     dep.Store,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		OID:           dep.OID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
