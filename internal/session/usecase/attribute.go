package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type SetInput struct {
	Key   string `validate:"required"`
	Value string `validate:"required"`
}

type SetOutput struct {
	Message   string
	Key       string
	Value     string
	Timestamp int64
}

// Set stores an attribute on the current session, creating the session when
// the client has none yet.
func (s *Usecase) Set(ctx context.Context, in SetInput) (*SetOutput, error) {
	ctx, span := s.startSpan(ctx, "Set")
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
		state = &websession.State{}
	} else if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	state.SetAttribute(in.Key, in.Value)

	if err := handle.Save(ctx, state); err != nil {
		slog.ErrorContext(ctx, "failed to save session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SetOutput{
		Message:   "attribute stored successfully",
		Key:       in.Key,
		Value:     in.Value,
		Timestamp: s.clock.Now().UnixMilli(),
	}, nil
}

type GetInput struct {
	Key string `validate:"required"`
}

type GetOutput struct {
	Key       string
	Value     string
	Found     bool
	Timestamp int64
}

// Get reads an attribute from the current session. A missing session and a
// missing key both report Found=false rather than an error.
func (s *Usecase) Get(ctx context.Context, in GetInput) (*GetOutput, error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	out := &GetOutput{Key: in.Key, Timestamp: s.clock.Now().UnixMilli()}

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	out.Value, out.Found = state.Attribute(in.Key)

	return out, nil
}

type RemoveInput struct {
	Key string `validate:"required"`
}

type RemoveOutput struct {
	Message   string
	Key       string
	Timestamp int64
}

// Remove drops an attribute from the current session. Removing an absent key
// or operating without a session is a no-op.
func (s *Usecase) Remove(ctx context.Context, in RemoveInput) (*RemoveOutput, error) {
	ctx, span := s.startSpan(ctx, "Remove")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	out := &RemoveOutput{
		Message:   "attribute removed successfully",
		Key:       in.Key,
		Timestamp: s.clock.Now().UnixMilli(),
	}

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	state.RemoveAttribute(in.Key)

	if err := handle.Save(ctx, state); err != nil {
		slog.ErrorContext(ctx, "failed to save session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	return out, nil
}
