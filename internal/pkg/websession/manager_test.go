package websession

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gogate/internal/pkg/hash"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	store, _ := newTestStore(t, 30*time.Minute)

	return NewManager(ManagerConfig{
		Store:      store,
		Signer:     hash.NewHMACSHA256("test-secret"),
		IDGen:      uid.NewUUID(),
		CookieName: "SESSION",
	})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "SESSION" {
			return c
		}
	}

	t.Fatalf("no SESSION cookie in response")
	return nil
}

func TestManagerHandle(t *testing.T) {

	t.Run("FreshRequestHasNoSession", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)

		// Act
		h := mgr.Handle(rec, req)
		_, err := h.Get(t.Context())

		// Assert
		if h.Started() {
			t.Fatalf("fresh handle should not be started")
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("no cookie should be written before the first save")
		}
	})

	t.Run("SaveWritesSignedCookie", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		h := mgr.Handle(rec, req)

		// Act
		if err := h.Save(t.Context(), &State{SubjectID: "12345678"}); err != nil {
			t.Fatalf("save: %v", err)
		}

		// Assert
		c := sessionCookie(t, rec)
		id, sig, ok := strings.Cut(c.Value, ".")
		if !ok || id != h.ID() || sig == "" {
			t.Fatalf("unexpected cookie value %q for id %q", c.Value, h.ID())
		}
		if !c.HttpOnly {
			t.Fatalf("cookie must be http-only")
		}
	})

	t.Run("CookieResolvesExistingSession", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		first := mgr.Handle(rec, req)
		if err := first.Save(t.Context(), &State{SubjectID: "12345678"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		cookie := sessionCookie(t, rec)

		// Act
		req2 := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req2.AddCookie(cookie)
		second := mgr.Handle(httptest.NewRecorder(), req2)
		state, err := second.Get(t.Context())

		// Assert
		if !second.Started() {
			t.Fatalf("handle from a valid cookie should be started")
		}
		if second.ID() != first.ID() {
			t.Fatalf("expected id %q, got %q", first.ID(), second.ID())
		}
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if state.SubjectID != "12345678" {
			t.Fatalf("unexpected state: %+v", state)
		}
	})

	t.Run("TamperedCookieIsRejected", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		first := mgr.Handle(rec, req)
		if err := first.Save(t.Context(), &State{SubjectID: "12345678"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		cookie := sessionCookie(t, rec)
		id, _, _ := strings.Cut(cookie.Value, ".")
		cookie.Value = id + "." + strings.Repeat("0", 64)

		// Act
		req2 := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req2.AddCookie(cookie)
		second := mgr.Handle(httptest.NewRecorder(), req2)

		// Assert
		if second.Started() {
			t.Fatalf("tampered cookie must not resolve a session")
		}
		if second.ID() == first.ID() {
			t.Fatalf("tampered cookie must not reuse the original id")
		}
	})
}

func TestHandleInvalidate(t *testing.T) {

	t.Run("DestroysStateAndRotatesID", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		h := mgr.Handle(rec, req)
		if err := h.Save(t.Context(), &State{SubjectID: "12345678"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		oldID := h.ID()

		// Act
		if err := h.Invalidate(t.Context()); err != nil {
			t.Fatalf("invalidate: %v", err)
		}

		// Assert
		if h.ID() == oldID {
			t.Fatalf("invalidate must rotate the session id")
		}
		if h.Started() {
			t.Fatalf("invalidated handle should not be started")
		}
		if _, err := mgr.store.Get(t.Context(), oldID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected destroyed state, got %v", err)
		}

		var expired *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "SESSION" && c.MaxAge < 0 {
				expired = c
			}
		}
		if expired == nil {
			t.Fatalf("expected an expiring SESSION cookie")
		}
	})
}

func TestHandleContext(t *testing.T) {

	t.Run("RoundTrip", func(t *testing.T) {

		// Arrange
		mgr := newTestManager(t)
		h := mgr.Handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		// Act
		ctx := NewContext(t.Context(), h)
		got, ok := FromContext(ctx)

		// Assert
		if !ok || got != h {
			t.Fatalf("expected handle from context")
		}
	})

	t.Run("AbsentHandle", func(t *testing.T) {

		// Act
		_, ok := FromContext(t.Context())

		// Assert
		if ok {
			t.Fatalf("expected no handle in bare context")
		}
	})
}
