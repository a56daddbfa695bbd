package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// handlers holds every collaborator the route handlers close over.
// Kept as a single struct (rather than one per resource) since most
// handlers only need one or two of Deps' fields and splitting further
// would just multiply constructor boilerplate.
type handlers struct {
	d Deps
}

const loginTokenExpirySeconds = 3600

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// login implements POST /api/v1/auth/login: verifies username/secret
// against the principal table and returns the opaque bearer token the
// client attaches to subsequent requests, per spec.md §4.1.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.login", "malformed request body"))
		return
	}

	principal, ok := h.d.Principals.Lookup(req.Username)
	if !ok || principal.Secret != req.Secret {
		WriteError(w, apperr.New(apperr.Unauthorized, "httpapi.login", "invalid credentials").WithCode("invalid_credentials"))
		return
	}

	token := base64.StdEncoding.EncodeToString([]byte(req.Username + ":" + req.Secret))
	user := principal.ToUser()

	WriteOK(w, envelope{
		"access_token": token,
		"expires_in":   loginTokenExpirySeconds,
		"user_info": envelope{
			"user_id":      user.UserID,
			"role":         user.Role,
			"display_name": user.DisplayName,
		},
	})
}

// logout is informational: the opaque token carries no server-side
// session to invalidate, so this just acknowledges the request.
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	WriteOK(w, envelope{"message": "logged out"})
}

// verify implements GET /api/v1/auth/verify: resolves the caller's
// bearer token and echoes back the identity it maps to.
func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	user, apiErr := h.d.Resolver.ResolveUser(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{
		"user_id":      user.UserID,
		"role":         user.Role,
		"display_name": user.DisplayName,
	})
}
