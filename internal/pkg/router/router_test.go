package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
)

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	return NewRouter(Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRouterMaintenance(t *testing.T) {

	t.Run("BlockedEndpointIsUnavailable", func(t *testing.T) {

		// Arrange
		r := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /ping\n")
		r.GET("/ping", func(_ *Request) (any, error) {
			return map[string]string{"message": "pong"}, nil
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)

		// Act
		r.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		body := decode(t, rec)
		if body["error"] != "service is under maintenance" {
			t.Fatalf("unexpected body: %v", body)
		}
		if ts, ok := body["timestamp"].(float64); !ok || ts <= 0 {
			t.Fatalf("expected timestamp, got %v", body["timestamp"])
		}
	})

	t.Run("OtherEndpointsStayUp", func(t *testing.T) {

		// Arrange
		r := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /ping\n")
		r.GET("/pong", func(_ *Request) (any, error) {
			return map[string]string{"message": "ok"}, nil
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/pong", nil)

		// Act
		r.ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := decode(t, rec); body["message"] != "ok" {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}
