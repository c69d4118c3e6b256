package gate

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gogate/internal/auth/entity"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/hash"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	enforcer, err := NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}

	return New(enforcer)
}

func TestGateCheck(t *testing.T) {

	t.Run("PublicPathAllowsAnonymous", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)

		// Act
		p, err := g.Check("/auth/login", http.MethodPost, nil)

		// Assert
		if err != nil || p != nil {
			t.Fatalf("expected anonymous passage, got p=%v err=%v", p, err)
		}
	})

	t.Run("UnmatchedPathIsPublic", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)

		// Act
		p, err := g.Check("/health", http.MethodGet, nil)

		// Assert
		if err != nil || p != nil {
			t.Fatalf("expected anonymous passage, got p=%v err=%v", p, err)
		}
	})

	t.Run("GuardedPathWithoutSession", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)

		// Act
		_, err := g.Check("/api/hello", http.MethodGet, nil)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("GuardedPathWithUnvalidatedSession", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)
		state := &websession.State{SubjectID: "DOC1", Authenticated: false}

		// Act
		_, err := g.Check("/api/hello", http.MethodGet, state)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("AuthenticatedSubjectGetsPrincipal", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)
		state := &websession.State{SubjectID: "DOC1", Authenticated: true}

		// Act
		p, err := g.Check("/api/hello", http.MethodGet, state)

		// Assert
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if p == nil || p.SubjectID != "DOC1" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		if len(p.Roles) != 1 || p.Roles[0] != entity.RoleUser {
			t.Fatalf("unexpected roles: %v", p.Roles)
		}
	})

	t.Run("SessionEndpointsStayPublic", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)

		// Act
		p, err := g.Check("/api/session/info", http.MethodGet, nil)

		// Assert
		if err != nil || p != nil {
			t.Fatalf("expected anonymous passage, got p=%v err=%v", p, err)
		}
	})
}

func TestGateMiddleware(t *testing.T) {

	newManager := func(t *testing.T) *websession.Manager {
		t.Helper()

		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		return websession.NewManager(websession.ManagerConfig{
			Store:  websession.NewRedisStore(client, 30*time.Minute),
			Signer: hash.NewHMACSHA256("test-secret"),
			IDGen:  uid.NewUUID(),
		})
	}

	t.Run("DeniesGuardedPathAnonymously", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)
		mgr := newManager(t)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("next handler must not run")
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req = req.WithContext(websession.NewContext(req.Context(), mgr.Handle(rec, req)))

		// Act
		g.Middleware()(next).ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] != "unauthenticated" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("PassesValidatedSessionWithPrincipal", func(t *testing.T) {

		// Arrange
		g := newTestGate(t)
		mgr := newManager(t)

		seedRec := httptest.NewRecorder()
		seedReq := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		seed := mgr.Handle(seedRec, seedReq)
		if err := seed.Save(t.Context(), &websession.State{SubjectID: "DOC1", Authenticated: true}); err != nil {
			t.Fatalf("seed session: %v", err)
		}

		var got *entity.Principal
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = entity.GetPrincipal(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		for _, c := range seedRec.Result().Cookies() {
			req.AddCookie(c)
		}
		req = req.WithContext(websession.NewContext(req.Context(), mgr.Handle(rec, req)))

		// Act
		g.Middleware()(next).ServeHTTP(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || got.SubjectID != "DOC1" {
			t.Fatalf("unexpected principal: %+v", got)
		}
	})
}
