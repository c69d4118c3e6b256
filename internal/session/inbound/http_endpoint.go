package inbound

import (
	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/session/usecase"
)

// HTTPEndpoint exposes HTTP handlers for inspecting and mutating the session
// attribute bag. Attribute keys and values travel as query parameters.
type HTTPEndpoint struct {
	uc uc
}

// Info describes the current session.
func (h *HTTPEndpoint) Info(r *router.Request) (any, error) {
	resp, err := h.uc.Info(r.Context())
	if err != nil {
		return nil, err
	}

	return InfoResponse{
		SessionID:  resp.SessionID,
		Message:    resp.Message,
		LoginAt:    resp.LoginAt,
		Attributes: resp.Attributes,
		Timestamp:  resp.Timestamp,
	}, nil
}

// Set stores an attribute on the session.
func (h *HTTPEndpoint) Set(r *router.Request) (any, error) {
	resp, err := h.uc.Set(r.Context(), usecase.SetInput{
		Key:   r.GetQuery("key"),
		Value: r.GetQuery("value"),
	})
	if err != nil {
		return nil, err
	}

	return SetResponse{
		Message:   resp.Message,
		Key:       resp.Key,
		Value:     resp.Value,
		Timestamp: resp.Timestamp,
	}, nil
}

// Get reads an attribute from the session.
func (h *HTTPEndpoint) Get(r *router.Request) (any, error) {
	resp, err := h.uc.Get(r.Context(), usecase.GetInput{Key: r.GetQuery("key")})
	if err != nil {
		return nil, err
	}

	return GetResponse{
		Key:       resp.Key,
		Value:     resp.Value,
		Found:     resp.Found,
		Timestamp: resp.Timestamp,
	}, nil
}

// Remove drops an attribute from the session.
func (h *HTTPEndpoint) Remove(r *router.Request) (any, error) {
	resp, err := h.uc.Remove(r.Context(), usecase.RemoveInput{Key: r.GetQuery("key")})
	if err != nil {
		return nil, err
	}

	return RemoveResponse{
		Message:   resp.Message,
		Key:       resp.Key,
		Timestamp: resp.Timestamp,
	}, nil
}

// Invalidate destroys the session.
func (h *HTTPEndpoint) Invalidate(r *router.Request) (any, error) {
	resp, err := h.uc.Invalidate(r.Context())
	if err != nil {
		return nil, err
	}

	return InvalidateResponse{
		Message:   resp.Message,
		Timestamp: resp.Timestamp,
	}, nil
}
