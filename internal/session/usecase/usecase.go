// Package usecase implements the session debug operations: inspecting the
// current session and exercising its free-form attribute bag.
package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/gogate/internal/pkg/clock"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
	"go.opentelemetry.io/otel/trace"
)

var errNoSessionHandle = errors.New("session: no session handle in context")

type Usecase struct {
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	Validator  validator.Validator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("session.usecase").Start(ctx, name)
}

func (s *Usecase) session(ctx context.Context) (*websession.Handle, error) {
	h, ok := websession.FromContext(ctx)
	if !ok {
		return nil, goerror.NewServer(errNoSessionHandle)
	}
	return h, nil
}
