package websession

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shandysiswandi/gogate/internal/pkg/hash"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
)

// DefaultCookieName is the session cookie name when none is configured.
const DefaultCookieName = "SESSION"

// ManagerConfig carries the dependencies and knobs for a Manager.
type ManagerConfig struct {
	Store      Store
	Signer     hash.Hash
	IDGen      uid.StringID
	CookieName string
	Secure     bool
}

// Manager resolves a per-request session Handle from the signed session
// cookie. It owns cookie reading and writing; the Handle owns state access.
type Manager struct {
	store  Store
	signer hash.Hash
	idgen  uid.StringID
	name   string
	secure bool
}

// NewManager constructs a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}

	return &Manager{
		store:  cfg.Store,
		signer: cfg.Signer,
		idgen:  cfg.IDGen,
		name:   name,
		secure: cfg.Secure,
	}
}

// Handle resolves the session for the request.
//
// A valid signed cookie yields a handle bound to the existing session id. A
// missing, malformed, or badly signed cookie yields a fresh id; the cookie is
// only written back once the handle saves state, so anonymous traffic never
// receives a session cookie.
func (m *Manager) Handle(w http.ResponseWriter, r *http.Request) *Handle {
	if id, ok := m.resolveID(r); ok {
		return &Handle{mgr: m, w: w, id: id, started: true}
	}

	return &Handle{mgr: m, w: w, id: m.idgen.Generate()}
}

func (m *Manager) resolveID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil {
		return "", false
	}

	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || id == "" {
		return "", false
	}

	if !m.signer.Verify(sig, id) {
		return "", false
	}

	return id, true
}

func (m *Manager) sign(id string) (string, error) {
	sig, err := m.signer.Hash(id)
	if err != nil {
		return "", fmt.Errorf("websession: sign cookie: %w", err)
	}
	return id + "." + string(sig), nil
}

func (m *Manager) writeCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Handle is the per-request view of one session.
type Handle struct {
	mgr *Manager
	w   http.ResponseWriter
	id  string
	// started is true once the client has (or is about to have) a cookie
	// referencing this id.
	started bool
}

// ID returns the current session id.
func (h *Handle) ID() string {
	return h.id
}

// Started reports whether the request arrived with a valid session cookie.
func (h *Handle) Started() bool {
	return h.started
}

// Get loads the session state, extending the sliding TTL. It returns
// ErrNotFound when the request carried no valid cookie or the state expired.
func (h *Handle) Get(ctx context.Context) (*State, error) {
	if !h.started {
		return nil, ErrNotFound
	}

	return h.mgr.store.Get(ctx, h.id)
}

// Save persists the state and, on the first save of a fresh session, writes
// the signed cookie back to the client. Callers must treat a Save failure as
// fatal for the operation in progress; nothing is persisted implicitly.
func (h *Handle) Save(ctx context.Context, state *State) error {
	if err := h.mgr.store.Save(ctx, h.id, state); err != nil {
		return err
	}

	if !h.started {
		value, err := h.mgr.sign(h.id)
		if err != nil {
			return err
		}

		h.mgr.writeCookie(h.w, value, int(h.mgr.store.TTL().Seconds()))
		h.started = true
	}

	return nil
}

// Invalidate destroys the session state, expires the client cookie, and
// rotates the handle's id so a subsequent Save starts a brand-new session.
func (h *Handle) Invalidate(ctx context.Context) error {
	if err := h.mgr.store.Invalidate(ctx, h.id); err != nil {
		return err
	}

	if h.started {
		h.mgr.writeCookie(h.w, "", -1)
	}

	h.id = h.mgr.idgen.Generate()
	h.started = false

	return nil
}

type handleKey struct{}

// NewContext returns a context carrying the session handle.
func NewContext(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, handleKey{}, h)
}

// FromContext returns the session handle stored by NewContext, if any.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(handleKey{}).(*Handle)
	return h, ok
}
