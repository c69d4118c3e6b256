package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
)

type LogoutOutput struct {
	Message   string
	Timestamp int64
}

// Logout destroys the session. It is idempotent: logging out without a
// session still succeeds, and subsequent requests start anonymous.
func (s *Usecase) Logout(ctx context.Context) (*LogoutOutput, error) {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	if err := handle.Invalidate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate session", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LogoutOutput{
		Message:   "session closed successfully",
		Timestamp: s.clock.Now().UnixMilli(),
	}, nil
}
