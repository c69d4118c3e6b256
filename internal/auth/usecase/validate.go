package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type ValidateInput struct {
	Code string `validate:"required,otpcode"`
}

type ValidateOutput struct {
	Message       string
	Authenticated bool
	SubjectID     string
	Timestamp     int64
}

// Validate redeems the presented code against the subject bound to the
// session.
//
// A mismatch or elapsed code is an expected outcome reported in the output,
// not an error; the subject may request a fresh code via Login. Only the
// absence of a login session and store failures surface as errors. The
// authenticated flag is not durable until the session save succeeds.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		slog.WarnContext(ctx, "otp validation without an active session")
		return nil, goerror.NewBusiness("no active session", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	if state.SubjectID == "" {
		slog.WarnContext(ctx, "session has no subject bound, login required")
		return nil, goerror.NewBusiness("no active session", goerror.CodeUnauthorized)
	}

	if !s.otp.Validate(state.SubjectID, in.Code) {
		slog.WarnContext(ctx, "otp validation failed", "subject_id", state.SubjectID)
		return &ValidateOutput{
			Message:       "invalid or expired OTP",
			Authenticated: false,
			Timestamp:     s.clock.Now().UnixMilli(),
		}, nil
	}

	now := s.clock.Now()
	state.Authenticated = true
	state.AuthAt = &now

	if err := handle.Save(ctx, state); err != nil {
		slog.ErrorContext(ctx, "failed to save session state", "subject_id", state.SubjectID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ValidateOutput{
		Message:       "authentication successful",
		Authenticated: true,
		SubjectID:     state.SubjectID,
		Timestamp:     now.UnixMilli(),
	}, nil
}
