package inbound

import (
	"context"

	"github.com/shandysiswandi/gogate/internal/auth/usecase"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput) (*usecase.ValidateOutput, error)
	Status(ctx context.Context) (*usecase.StatusOutput, error)
	Logout(ctx context.Context) (*usecase.LogoutOutput, error)

	Hello(ctx context.Context) (*usecase.HelloOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Authentication flow
	r.POST("/auth/login", end.Login)
	r.POST("/auth/validate", end.Validate)
	r.GET("/auth/status", end.Status)
	r.POST("/auth/status", end.Status)
	r.POST("/auth/logout", end.Logout)

	// Guarded demo resource
	r.GET("/api/hello", end.Hello)
}
