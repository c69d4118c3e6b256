package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/otpstore"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type LoginInput struct {
	SubjectID      string `validate:"required"`
	ContactAddress string `validate:"required,email"`
}

type LoginOutput struct {
	Message        string
	Code           string
	SubjectID      string
	ContactAddress string
	ExpiresIn      string
	Timestamp      int64
}

// Login binds the subject to the session and issues a fresh one-time code.
//
// The session save must land before the code is issued so a save failure can
// never leave a live code with no recorded subject. Any authenticated state
// from a previous login on the same session is reset.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	subjectID := strings.TrimSpace(in.SubjectID)

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		state = &websession.State{}
	} else if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "subject_id", subjectID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	state.SubjectID = subjectID
	state.ContactAddress = in.ContactAddress
	state.LoginAt = &now
	state.Authenticated = false
	state.AuthAt = nil

	if err := handle.Save(ctx, state); err != nil {
		slog.ErrorContext(ctx, "failed to save session state", "subject_id", subjectID, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.otp.Generate(subjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "subject_id", subjectID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("otp.ttl_minutes")
	if ttl <= 0 {
		ttl = otpstore.DefaultTTL
	}

	expiresAt := now.Add(ttl)
	if rec, ok := s.otp.Peek(subjectID); ok {
		expiresAt = rec.ExpiresAt
	}

	evt := OtpIssuedEvent{
		SubjectID:      subjectID,
		ContactAddress: in.ContactAddress,
		Code:           code,
		ExpiresAt:      expiresAt,
	}
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOtpIssued(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued event", "subject_id", evt.SubjectID, "error", err)
			return err
		}
		return nil
	})

	return &LoginOutput{
		Message: "OTP generated successfully",
		// The code is echoed in the response to mirror the original flow; a
		// production deployment must deliver it out-of-band only.
		Code:           code,
		SubjectID:      subjectID,
		ContactAddress: in.ContactAddress,
		ExpiresIn:      fmt.Sprintf("%d minutes", int(ttl.Minutes())),
		Timestamp:      now.UnixMilli(),
	}, nil
}
