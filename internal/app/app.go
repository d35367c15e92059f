package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goship/internal/pkg/clock"
	"github.com/shandysiswandi/goship/internal/pkg/config"
	"github.com/shandysiswandi/goship/internal/pkg/goroutine"
	"github.com/shandysiswandi/goship/internal/pkg/idempotency"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/messaging"
	"github.com/shandysiswandi/goship/internal/pkg/router"
	"github.com/shandysiswandi/goship/internal/pkg/uid"
	"github.com/shandysiswandi/goship/internal/pkg/validator"
	"github.com/shandysiswandi/goship/internal/shipment/outbound/store"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config   config.Config
	settings config.Settings
	ins      instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	oid       uid.StringID
	uuid      uid.StringID

	// resources
	store      store.Store
	storeClose func(context.Context) error
	cacheConn  *redis.Client
	idemp      idempotency.Idempotency
	messaging  messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initSettings()
	app.initInstrument()
	app.initGoroutine()
	app.initStore()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
