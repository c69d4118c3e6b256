package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
)

type InvalidateOutput struct {
	Message   string
	Timestamp int64
}

// Invalidate destroys the current session and its cookie. It succeeds even
// when the client has no session.
func (s *Usecase) Invalidate(ctx context.Context) (*InvalidateOutput, error) {
	ctx, span := s.startSpan(ctx, "Invalidate")
	defer span.End()

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	if err := handle.Invalidate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate session", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &InvalidateOutput{
		Message:   "session invalidated successfully",
		Timestamp: s.clock.Now().UnixMilli(),
	}, nil
}
