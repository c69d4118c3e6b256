package auth

import (
	"github.com/shandysiswandi/gogate/internal/auth/inbound"
	"github.com/shandysiswandi/gogate/internal/auth/outbound/mq"
	"github.com/shandysiswandi/gogate/internal/auth/usecase"
	"github.com/shandysiswandi/gogate/internal/pkg/clock"
	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/goroutine"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/messaging"
	"github.com/shandysiswandi/gogate/internal/pkg/otpstore"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Otp        otpstore.Store             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Otp:           dep.Otp,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
