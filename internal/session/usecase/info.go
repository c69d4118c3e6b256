package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type InfoOutput struct {
	SessionID  string
	Message    string
	LoginAt    *time.Time
	Attributes map[string]string
	Timestamp  int64
}

// Info returns an overview of the current session, or a no-session message
// when the client has none.
func (s *Usecase) Info(ctx context.Context) (*InfoOutput, error) {
	ctx, span := s.startSpan(ctx, "Info")
	defer span.End()

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		return &InfoOutput{
			Message:   "no active session",
			Timestamp: s.clock.Now().UnixMilli(),
		}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &InfoOutput{
		SessionID:  handle.ID(),
		LoginAt:    state.LoginAt,
		Attributes: state.Attributes,
		Timestamp:  s.clock.Now().UnixMilli(),
	}, nil
}
