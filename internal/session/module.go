// Package session exposes endpoints for inspecting the server-side session
// and exercising its attribute bag. The gate keeps these paths public so the
// session machinery can be observed without authenticating first.
package session

import (
	"github.com/shandysiswandi/gogate/internal/pkg/clock"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/session/inbound"
	"github.com/shandysiswandi/gogate/internal/session/usecase"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
