package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gogate/internal/auth"
	"github.com/shandysiswandi/gogate/internal/session"
)

func (a *App) initModules() {
	if err := auth.New(auth.Dependency{
		Router:     a.router,
		Messaging:  a.messaging,
		Otp:        a.otp,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module auth", "error", err)
		os.Exit(1)
	}

	if err := session.New(session.Dependency{
		Router:     a.router,
		Instrument: a.ins,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module session", "error", err)
		os.Exit(1)
	}
}
