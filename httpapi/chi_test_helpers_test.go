package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withChiContext attaches a *chi.Context carrying URL params so handler
// unit tests can call chi.URLParam without routing through a full router.
func withChiContext(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}
