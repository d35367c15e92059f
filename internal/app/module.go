package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/goship/internal/shipment"
)

func (a *App) initModules() {
	if err := shipment.New(shipment.Dependency{
		Store:       a.store,
		Goroutine:   a.goroutine,
		Router:      a.router,
		Idempotency: a.idemp,
		Messaging:   a.messaging,
		Topic:       a.settings.Messaging.Topic,
		Instrument:  a.ins,
		OID:         a.oid,
		Clock:       a.clock,
		Validator:   a.validator,
	}); err != nil {
		slog.Error("failed to init module shipment", "error", err)
		os.Exit(1)
	}
}
