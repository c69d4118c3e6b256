package router

import (
	"net/http"

	"github.com/shandysiswandi/gogate/internal/pkg/websession"
)

// middlewareSession resolves the request's session handle once and stores it
// in the context so inbound handlers and the access gate share the same view.
func middlewareSession(mgr *websession.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := mgr.Handle(w, r)
			next.ServeHTTP(w, r.WithContext(websession.NewContext(r.Context(), h)))
		})
	}
}
