package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID

	// resources
	cacheConn *redis.Client
	otp       otpstore.Store
	session   *websession.Manager
	messaging messaging.Messaging
	casbin    *casbin.Enforcer
	gate      *gate.Gate

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
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initSession()
	app.initOtpStore()
	app.initMessaging()
	app.initGate()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
