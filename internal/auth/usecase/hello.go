package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gogate/internal/auth/entity"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
)

type HelloOutput struct {
	Message   string
	SubjectID string
	Roles     []string
	Timestamp int64
}

// Hello is the guarded demo resource: it greets the authenticated principal.
func (s *Usecase) Hello(ctx context.Context) (*HelloOutput, error) {
	ctx, span := s.startSpan(ctx, "Hello")
	defer span.End()

	p := entity.GetPrincipal(ctx)
	if p == nil {
		slog.WarnContext(ctx, "guarded resource accessed without principal")
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return &HelloOutput{
		Message:   "Hello, " + p.SubjectID,
		SubjectID: p.SubjectID,
		Roles:     p.Roles,
		Timestamp: s.clock.Now().UnixMilli(),
	}, nil
}
