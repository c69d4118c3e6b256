// Package gate enforces the service's path access rules.
//
// It is a single interception point: given the request path, method, and the
// current session state, it either allows anonymous passage (public path),
// produces the authenticated Principal (guarded path, validated session), or
// denies. Role policy for guarded paths is evaluated through casbin.
package gate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gogate/internal/auth/entity"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/router"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

// Rule declares access for a path prefix. Rules are evaluated in order and
// the first match wins; paths matching no rule are public.
type Rule struct {
	Prefix string
	Public bool
}

// DefaultRules mirror the service's route layout: the auth flow and the
// session debug endpoints are reachable anonymously, everything else under
// /api requires a validated session.
var DefaultRules = []Rule{
	{Prefix: "/auth/", Public: true},
	{Prefix: "/api/session/", Public: true},
	{Prefix: "/api/", Public: false},
}

// Gate checks requests against the rule table and the role policy.
type Gate struct {
	rules    []Rule
	enforcer *casbin.Enforcer
}

// New constructs a Gate. When no rules are given, DefaultRules apply.
func New(enforcer *casbin.Enforcer, rules ...Rule) *Gate {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	return &Gate{rules: rules, enforcer: enforcer}
}

// NewEnforcer builds the in-memory casbin enforcer with the service's role
// policy: the USER role may reach every guarded path.
func NewEnforcer() (*casbin.Enforcer, error) {
	const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicy(entity.RoleUser, "/api/*", "*"); err != nil {
		return nil, err
	}

	return e, nil
}

// Check applies the rule table to one request.
//
// A nil principal with a nil error means anonymous passage on a public path.
// On a guarded path the session must be authenticated and the subject's role
// must be allowed by policy, otherwise the request is denied.
func (g *Gate) Check(path, method string, state *websession.State) (*entity.Principal, error) {
	rule, ok := g.match(path)
	if !ok || rule.Public {
		return nil, nil
	}

	if state == nil || !state.Authenticated || state.SubjectID == "" {
		return nil, goerror.NewBusiness("unauthenticated", goerror.CodeUnauthorized)
	}

	p := &entity.Principal{SubjectID: state.SubjectID, Roles: []string{entity.RoleUser}}
	for _, role := range p.Roles {
		allowed, err := g.enforcer.Enforce(role, path, method)
		if err != nil {
			return nil, goerror.NewServer(err)
		}
		if allowed {
			return p, nil
		}
	}

	return nil, goerror.NewBusiness("access denied", goerror.CodeForbidden)
}

func (g *Gate) match(path string) (Rule, bool) {
	return lo.Find(g.rules, func(rule Rule) bool {
		return strings.HasPrefix(path, rule.Prefix)
	})
}

// Middleware adapts the gate into the router's middleware chain. It runs
// after the session middleware so guarded paths see the resolved session.
func (g *Gate) Middleware() router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			path := routePath(r)

			rule, matched := g.match(path)
			if !matched || rule.Public {
				next.ServeHTTP(w, r)
				return
			}

			var state *websession.State
			if h, ok := websession.FromContext(ctx); ok {
				st, err := h.Get(ctx)
				if err != nil && !errors.Is(err, websession.ErrNotFound) {
					slog.ErrorContext(ctx, "gate failed to load session state", "path", path, "error", err)
					writeDenied(w, goerror.NewServer(err))
					return
				}
				state = st
			}

			principal, err := g.Check(path, r.Method, state)
			if err != nil {
				writeDenied(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(entity.SetPrincipal(ctx, principal)))
		})
	}
}

func routePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func writeDenied(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		status = gerr.StatusCode()
		msg = gerr.Msg()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // best effort, the status line is already written
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":     msg,
		"timestamp": time.Now().UnixMilli(),
	})
}
