package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	objID, err := uid.NewObjectIDGenerator()
	if err != nil {
		slog.Error("failed to init uid string object_id", "error", err)
		os.Exit(1)
	}
	a.oid = objID
}

func (a *App) initSettings() {
	settings, err := config.Load(a.config, a.validator)
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	if settings.App.TZ != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", settings.App.TZ)
	}

	a.settings = settings
}

func (a *App) initInstrument() {
	s := a.settings
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          s.Instrument.Enabled,
		ServiceName:      s.App.Name,
		ServiceVersion:   a.config.GetString("app.version"),
		Environment:      s.App.Env,
		OTLPEndpoint:     s.Instrument.OTLPEndpoint,
		OTLPSecure:       s.Instrument.OTLPSecure,
		TraceSampleRatio: s.Instrument.TraceSampleRatio,
		MetricsInterval:  s.Instrument.MetricsInterval,
		MaskFields:       s.Instrument.MaskFields,
		LogLevel:         instrument.ParseLevel(s.App.LogLevel),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initGoroutine() {
	a.goroutine = goroutine.NewManager(a.settings.App.MaxGoroutine)
}

// initStore connects the configured shipment store. The first ping is
// retried with backoff because the database often starts alongside the service.
func (a *App) initStore() {
	s := a.settings.Store
	ctx, cancel := context.WithTimeout(a.ctx, s.ConnectTimeout)
	defer cancel()

	switch s.Driver {
	case store.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URL))
		if err != nil {
			slog.Error("failed to create mongo client", "error", err)
			os.Exit(1)
		}
		m := store.NewMongo(client, s.Database, a.ins)
		a.waitStore(ctx, m)
		if err := m.EnsureIndexes(ctx); err != nil {
			slog.Error("failed to ensure mongo indexes", "error", err)
			os.Exit(1)
		}
		a.store = m
		a.storeClose = client.Disconnect

	case store.DriverPostgres:
		pool, err := pgxpool.New(a.ctx, s.URL)
		if err != nil {
			slog.Error("failed to create postgres connection pool", "error", err)
			os.Exit(1)
		}
		p := store.NewPostgres(pool, a.ins)
		a.waitStore(ctx, p)
		if err := p.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure postgres schema", "error", err)
			os.Exit(1)
		}
		a.store = p
		a.storeClose = func(context.Context) error {
			pool.Close()
			return nil
		}

	default:
		slog.Warn("using in-memory shipment store, data is lost on restart")
		a.store = store.NewMemory(a.ins)
		a.storeClose = func(context.Context) error { return nil }
	}

	slog.Info("shipment store ready", "driver", s.Driver)
}

func (a *App) waitStore(ctx context.Context, st store.Store) {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := st.Ping(ctx); err != nil {
			slog.Warn("shipment store not reachable yet", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.Error("failed to ping shipment store", "error", err)
		os.Exit(1)
	}
}

func (a *App) initCache() {
	if a.settings.Redis.URL == "" {
		slog.Info("redis is not configured, idempotency keys are ignored")
		a.idemp = idempotency.Disabled{}
		return
	}

	opt, err := redis.ParseURL(a.settings.Redis.URL)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMessaging() {
	s := a.settings.Messaging
	client, err := messaging.NewFromDriver(s.Driver, messaging.FactoryOptions{
		Kafka: messaging.KafkaConfig{
			Brokers:      s.KafkaBrokers,
			WriteTimeout: a.config.GetSecond("messaging.kafka.write_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL: s.NATSURL,
			Options: []nats.Option{
				nats.Name(a.settings.App.Name),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", s.Driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Production: a.settings.Production(),
		MaskFields: a.settings.Instrument.MaskFields,
		UUID:       a.uuid,
		Validator:  a.validator,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.settings.HTTP.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	h := a.settings.HTTP
	a.httpServer = &http.Server{
		Addr:              h.Address,
		Handler:           routerWithCORS,
		ReadTimeout:       h.ReadTimeout,
		ReadHeaderTimeout: h.ReadHeaderTimeout,
		WriteTimeout:      h.WriteTimeout,
		IdleTimeout:       h.IdleTimeout,
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Store",
			fn:   a.storeClose,
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
