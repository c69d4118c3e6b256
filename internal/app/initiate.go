package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/gogate/internal/auth/gate"
	"github.com/shandysiswandi/gogate/internal/pkg/clock"
	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/goroutine"
	"github.com/shandysiswandi/gogate/internal/pkg/hash"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/messaging"
	"github.com/shandysiswandi/gogate/internal/pkg/otpstore"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
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

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          true,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("session.cookie_secret"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
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
}

func (a *App) initSession() {
	ttl := a.config.GetMinute("session.ttl_minutes")
	if ttl <= 0 {
		ttl = websession.DefaultTTL
	}

	a.session = websession.NewManager(websession.ManagerConfig{
		Store:      websession.NewRedisStore(a.cacheConn, ttl),
		Signer:     a.hmac,
		IDGen:      a.uuid,
		CookieName: a.config.GetString("session.cookie_name"),
		Secure:     a.config.GetBool("session.cookie_secure"),
	})
}

func (a *App) initOtpStore() {
	ttl := a.config.GetMinute("otp.ttl_minutes")
	if ttl <= 0 {
		ttl = otpstore.DefaultTTL
	}

	a.otp = otpstore.NewMemory(ttl, a.clock)
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initGate() {
	enforcer, err := gate.NewEnforcer()
	if err != nil {
		slog.Error("failed to init casbin enforcer", "error", err)
		os.Exit(1)
	}

	a.casbin = enforcer
	a.gate = gate.New(enforcer)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Session:    a.session,
		Gate:       a.gate.Middleware(),
	})

	a.router.GET("/health", func(_ *router.Request) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
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
