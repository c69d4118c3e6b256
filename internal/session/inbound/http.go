package inbound

import (
	"context"

	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/session/usecase"
)

type uc interface {
	Info(ctx context.Context) (*usecase.InfoOutput, error)
	Set(ctx context.Context, in usecase.SetInput) (*usecase.SetOutput, error)
	Get(ctx context.Context, in usecase.GetInput) (*usecase.GetOutput, error)
	Remove(ctx context.Context, in usecase.RemoveInput) (*usecase.RemoveOutput, error)
	Invalidate(ctx context.Context) (*usecase.InvalidateOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/session/info", end.Info)
	r.POST("/api/session/set", end.Set)
	r.GET("/api/session/get", end.Get)
	r.POST("/api/session/remove", end.Remove)
	r.POST("/api/session/invalidate", end.Invalidate)
}
