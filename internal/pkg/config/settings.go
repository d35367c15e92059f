package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// StructValidator validates a tagged struct.
type StructValidator interface {
	Validate(data any) error
}

// Settings is the immutable startup configuration. It is read once in Load
// and passed by value to constructors.
type Settings struct {
	App        AppSettings
	HTTP       HTTPSettings
	Store      StoreSettings
	Redis      RedisSettings
	Messaging  MessagingSettings
	Instrument InstrumentSettings
}

type AppSettings struct {
	Name         string `validate:"required"`
	Env          string `validate:"oneof=development production test"`
	LogLevel     string `validate:"oneof=error warn info debug"`
	TZ           string
	MaxGoroutine int `validate:"gte=1"`
}

type HTTPSettings struct {
	Address           string `validate:"required"`
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	CORSOrigins       []string
}

type StoreSettings struct {
	Driver         string `validate:"oneof=mongo postgres memory"`
	URL            string `validate:"required_unless=Driver memory"`
	Database       string
	ConnectTimeout time.Duration
}

type RedisSettings struct {
	// URL is optional; idempotency keys are ignored without it.
	URL string
}

type MessagingSettings struct {
	Driver       string `validate:"omitempty,oneof=kafka nats"`
	KafkaBrokers []string
	NATSURL      string
	Topic        string
}

type InstrumentSettings struct {
	Enabled          bool
	OTLPEndpoint     string `validate:"required_if=Enabled true"`
	OTLPSecure       bool
	TraceSampleRatio float64 `validate:"gte=0,lte=1"`
	MetricsInterval  time.Duration
	MaskFields       []string
}

// Production reports whether the service runs in the production environment.
func (s Settings) Production() bool {
	return s.App.Env == EnvProduction
}

// Load reads Settings from cfg, applies defaults and validates the result.
// Development always logs at debug level.
func Load(cfg Config, v StructValidator) (Settings, error) {
	s := Settings{
		App: AppSettings{
			Name:         orDefault(cfg.GetString("app.name"), "goship"),
			Env:          strings.ToLower(orDefault(cfg.GetString("app.env"), EnvDevelopment)),
			LogLevel:     strings.ToLower(orDefault(cfg.GetString("app.log_level"), "info")),
			TZ:           cfg.GetString("app.tz"),
			MaxGoroutine: cfg.GetInt("app.max_goroutine"),
		},
		HTTP: HTTPSettings{
			Address:           orDefault(cfg.GetString("app.server.http.address"), ":3000"),
			ReadTimeout:       cfg.GetSecond("app.server.http.read_timeout_seconds"),
			ReadHeaderTimeout: cfg.GetSecond("app.server.http.read_header_timeout_seconds"),
			WriteTimeout:      cfg.GetSecond("app.server.http.write_timeout_seconds"),
			IdleTimeout:       cfg.GetSecond("app.server.http.idle_timeout_seconds"),
			CORSOrigins:       cfg.GetArray("app.server.cors"),
		},
		Store: StoreSettings{
			Driver:         strings.ToLower(orDefault(cfg.GetString("store.driver"), "mongo")),
			URL:            cfg.GetString("store.url"),
			Database:       orDefault(cfg.GetString("store.database"), "goship"),
			ConnectTimeout: cfg.GetSecond("store.connect_timeout_seconds"),
		},
		Redis: RedisSettings{
			URL: cfg.GetString("redis.url"),
		},
		Messaging: MessagingSettings{
			Driver:       strings.ToLower(cfg.GetString("messaging.driver")),
			KafkaBrokers: cfg.GetArray("messaging.kafka.brokers"),
			NATSURL:      cfg.GetString("messaging.nats.url"),
			Topic:        orDefault(cfg.GetString("messaging.topic"), "goship.shipments"),
		},
		Instrument: InstrumentSettings{
			Enabled:          cfg.GetBool("instrument.enabled"),
			OTLPEndpoint:     cfg.GetString("instrument.otlp_endpoint"),
			OTLPSecure:       cfg.GetBool("instrument.otlp_secure"),
			TraceSampleRatio: cfg.GetFloat64("instrument.trace_sample_ratio"),
			MetricsInterval:  cfg.GetSecond("instrument.metric_interval_seconds"),
			MaskFields:       cfg.GetArray("instrument.log_mask_fields"),
		},
	}

	if s.App.MaxGoroutine == 0 {
		s.App.MaxGoroutine = 100
	}
	if s.Store.ConnectTimeout == 0 {
		s.Store.ConnectTimeout = 10 * time.Second
	}
	if s.Instrument.MetricsInterval == 0 {
		s.Instrument.MetricsInterval = 15 * time.Second
	}
	if s.App.Env == EnvDevelopment {
		s.App.LogLevel = "debug"
	}

	if err := v.Validate(s); err != nil {
		return Settings{}, fmt.Errorf("config: invalid settings: %w", err)
	}

	return s, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
