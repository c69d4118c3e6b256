package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/gogate/internal/pkg/clock"
	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/goroutine"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/otpstore"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
	"go.opentelemetry.io/otel/trace"
)

var errNoSessionHandle = errors.New("auth: no session handle in context")

// OtpIssuedEvent notifies downstream delivery of a freshly issued code.
type OtpIssuedEvent struct {
	SubjectID      string
	ContactAddress string
	Code           string
	ExpiresAt      time.Time
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
}

// Usecase is the authentication state machine.
//
// It is the sole translator from domain outcomes (absent session, consumed or
// mismatched codes, store failures) to the error taxonomy surfaced over the
// wire; the otp store and session handle below it never raise domain errors.
type Usecase struct {
	otp           otpstore.Store
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	Otp           otpstore.Store
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		otp:           dep.Otp,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) session(ctx context.Context) (*websession.Handle, error) {
	h, ok := websession.FromContext(ctx)
	if !ok {
		return nil, goerror.NewServer(errNoSessionHandle)
	}
	return h, nil
}
