// Package httpapi wires every service package in this repository onto the
// stable HTTP surface of spec.md §6, grounded on cartographus's
// internal/api/chi_router.go route-group-plus-middleware-chain layout.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
)

// envelope is the response shape used by every JSON endpoint: the
// endpoint's own fields plus a `success` flag (added by WriteOK, set by
// cacheable handlers themselves); WriteError also adds `ts`.
type envelope map[string]any

// WriteJSON sanitizes NaN/Inf floats out of data, marshals it, and writes
// it with the given status, per spec.md §7's numeric-safety rule.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(cache.Sanitize(data))
}

// WriteOK writes a 200 envelope merging fields into {success: true}.
func WriteOK(w http.ResponseWriter, fields envelope) {
	out := envelope{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	WriteJSON(w, http.StatusOK, out)
}

// WriteError writes the {success=false, error, error_code?, ts} shape of
// spec.md §7, mapping the error's Kind to its HTTP status and attaching
// WWW-Authenticate when the kind demands a challenge.
func WriteError(w http.ResponseWriter, err *apperr.Error) {
	if err.RequiresChallenge() {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	body := envelope{
		"success":   false,
		"error":     err.Message,
		"ts":        time.Now().UTC(),
	}
	if err.Message == "" {
		body["error"] = err.Error()
	}
	if err.Code != "" {
		body["error_code"] = err.Code
	}
	WriteJSON(w, err.Status(), body)
}

// WriteCacheable sets ETag/Cache-Control headers for data and either
// writes 304 (when the request's If-None-Match matches) or the payload
// with the given status, per spec.md §6's caching-headers contract.
func WriteCacheable(w http.ResponseWriter, r *http.Request, status int, data any, maxAge, staleWhileRevalidate time.Duration) {
	etag, err := cache.ETag(data)
	if err == nil {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Cache-Control", cacheControlValue(maxAge, staleWhileRevalidate))
	WriteJSON(w, status, data)
}

func cacheControlValue(maxAge, staleWhileRevalidate time.Duration) string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(maxAge.Seconds()), int(staleWhileRevalidate.Seconds()))
}
