package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gogate/internal/auth/usecase"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the session authentication flow.
type HTTPEndpoint struct {
	uc uc
}

// Login starts the flow: it binds the subject to the session and returns the
// issued one-time code.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		SubjectID:      req.SubjectID,
		ContactAddress: req.ContactAddress,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		Message:        resp.Message,
		Code:           resp.Code,
		SubjectID:      resp.SubjectID,
		ContactAddress: resp.ContactAddress,
		ExpiresIn:      resp.ExpiresIn,
		Timestamp:      resp.Timestamp,
	}, nil
}

// Validate redeems a one-time code. The code is read from the "otp" query
// parameter, falling back to a JSON body with an "otp" field.
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	code := r.GetQuery("otp")
	if code == "" {
		var req ValidateRequest
		if err := r.DecodeBody(&req); err == nil {
			code = req.Code
		}
	}

	resp, err := h.uc.Validate(r.Context(), usecase.ValidateInput{Code: code})
	if err != nil {
		return nil, err
	}

	out := ValidateResponse{
		Message:       resp.Message,
		Authenticated: resp.Authenticated,
		SubjectID:     resp.SubjectID,
		Timestamp:     resp.Timestamp,
	}
	if !resp.Authenticated {
		out.status = http.StatusUnauthorized
	}

	return out, nil
}

// Status reports the session's authentication state.
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	resp, err := h.uc.Status(r.Context())
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		Authenticated:  resp.Authenticated,
		Message:        resp.Message,
		SubjectID:      resp.SubjectID,
		ContactAddress: resp.ContactAddress,
		LoginAt:        resp.LoginAt,
		AuthAt:         resp.AuthAt,
		SessionID:      resp.SessionID,
		Timestamp:      resp.Timestamp,
	}, nil
}

// Logout destroys the session.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	resp, err := h.uc.Logout(r.Context())
	if err != nil {
		return nil, err
	}

	return LogoutResponse{
		Message:   resp.Message,
		Timestamp: resp.Timestamp,
	}, nil
}

// Hello is the guarded demo resource.
func (h *HTTPEndpoint) Hello(r *router.Request) (any, error) {
	resp, err := h.uc.Hello(r.Context())
	if err != nil {
		return nil, err
	}

	return HelloResponse{
		Message:   resp.Message,
		SubjectID: resp.SubjectID,
		Roles:     resp.Roles,
		Timestamp: resp.Timestamp,
	}, nil
}
