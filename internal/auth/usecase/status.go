package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type StatusOutput struct {
	Authenticated  bool
	Message        string
	SubjectID      string
	ContactAddress string
	LoginAt        *time.Time
	AuthAt         *time.Time
	SessionID      string
	Timestamp      int64
}

// Status reports the session's authentication state. A missing or expired
// session is a normal anonymous outcome, not an error.
func (s *Usecase) Status(ctx context.Context) (*StatusOutput, error) {
	ctx, span := s.startSpan(ctx, "Status")
	defer span.End()

	handle, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	state, err := handle.Get(ctx)
	if errors.Is(err, websession.ErrNotFound) {
		return &StatusOutput{
			Authenticated: false,
			Message:       "no active session",
			Timestamp:     s.clock.Now().UnixMilli(),
		}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session state", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &StatusOutput{
		Authenticated:  state.Authenticated,
		SubjectID:      state.SubjectID,
		ContactAddress: state.ContactAddress,
		LoginAt:        state.LoginAt,
		AuthAt:         state.AuthAt,
		SessionID:      handle.ID(),
		Timestamp:      s.clock.Now().UnixMilli(),
	}, nil
}
