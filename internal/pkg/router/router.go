package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

type errorResponse struct {
	Error     string            `json:"error" example:"example string message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// Session resolves the per-request session handle.
	Session *websession.Manager
	// Gate enforces path access rules after the session is resolved.
	Gate Middleware
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter builds the default application router with standard middleware.
//
// Response payloads are encoded as-is (flat JSON, no envelope); a payload may
// implement StatusCode() int to override the 200 default. Errors are mapped
// through goerror and rendered as {error, fields?, timestamp}.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Error: "endpoint not found", Timestamp: nowMillis()}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, errorResponse{Error: "method not allowed", Timestamp: nowMillis()}, http.StatusMethodNotAllowed)
		}),
	}

	hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, map[string]string{"message": "Welcome to API GoGate"}, http.StatusOK)
	})

	errorCodec := func(ctx context.Context, w http.ResponseWriter, err error) {
		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			writeJSON(w, errorResponse{Error: "internal server error", Timestamp: nowMillis()}, http.StatusInternalServerError)
			return
		}

		errResp := errorResponse{Error: gerr.Msg(), Timestamp: nowMillis()}

		var errValidate validator.V10ValidationError
		if errors.As(err, &errValidate) {
			errResp.Fields = errValidate.Values()
		} else if len(gerr.Fields()) > 0 {
			errResp.Fields = gerr.Fields()
		}

		writeJSON(w, errResp, gerr.StatusCode())
	}

	okCodec := func(ctx context.Context, w http.ResponseWriter, resp any) {
		code := http.StatusOK
		if sc, ok := resp.(interface {
			StatusCode() int
		}); ok {
			code = sc.StatusCode()
		}

		if code == http.StatusNoContent || resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, resp, code)
	}

	mws := []Middleware{
		middlewareRecoverer,
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareObservability(cfg.Config, cfg.Instrument),
		middlewareMaintenance(cfg.Config),
	}
	if cfg.Session != nil {
		mws = append(mws, middlewareSession(cfg.Session))
	}
	if cfg.Gate != nil {
		mws = append(mws, cfg.Gate)
	}

	return &Router{
		hr:         hr,
		errorCodec: errorCodec,
		encoder:    okCodec,
		mws:        mws,
	}
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// GETRaw registers a GET endpoint that writes directly to the response writer.
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodGet, path, Chain(h, append(r.mws, mws...)...))
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		slog.Error("server: failed to encode data to json", "error", err)
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
