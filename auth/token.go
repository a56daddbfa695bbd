package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// timezoneHeaders lists, in priority order, the request sources for
// preferences.timezone (spec.md §4.1, §6).
var timezoneHeaders = []string{"x-user-timezone", "x-timezone", "x-tz"}

// Resolver resolves a User from an incoming request against a principal
// store, implementing spec.md §4.1's two resolver contracts.
type Resolver struct {
	store            *PrincipalStore
	openMediaEnabled bool
}

// NewResolver builds a Resolver. openMediaEnabled mirrors the "dev flag"
// that lets resolve_user_permissive synthesize an open-access media user.
func NewResolver(store *PrincipalStore, openMediaEnabled bool) *Resolver {
	return &Resolver{store: store, openMediaEnabled: openMediaEnabled}
}

// ResolveUser requires a bearer credential and returns a User or an
// unauthorized *apperr.Error with the documented sub-codes.
func (r *Resolver) ResolveUser(req *http.Request) (*User, *apperr.Error) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return nil, missing()
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, badFormat()
	}
	user, err := r.authenticate(token)
	if err != nil {
		return nil, err
	}
	applyTimezone(req, user)
	return user, nil
}

// ResolveUserPermissive additionally accepts a `?token=` query parameter
// and, when the dev flag is enabled, synthesizes a synthetic "open media"
// user with full team access rather than failing unauthorized.
func (r *Resolver) ResolveUserPermissive(req *http.Request) (*User, *apperr.Error) {
	token := bearerToken(req)
	if token == "" {
		token = req.URL.Query().Get("token")
	}
	if token == "" {
		if r.openMediaEnabled {
			return openMediaUser(), nil
		}
		return nil, missing()
	}
	user, err := r.authenticate(token)
	if err != nil {
		if r.openMediaEnabled {
			return openMediaUser(), nil
		}
		return nil, err
	}
	applyTimezone(req, user)
	return user, nil
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func (r *Resolver) authenticate(token string) (*User, *apperr.Error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, badFormat()
	}
	username, secret, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, badFormat()
	}
	principal, ok := r.store.Lookup(username)
	if !ok || principal.Secret != secret {
		return nil, invalidCredentials()
	}
	return principal.ToUser(), nil
}

func openMediaUser() *User {
	return &User{
		UserID:      "open-media",
		Role:        RoleStaff,
		DisplayName: "Open Media Access",
		TeamAccess:  map[string]bool{},
	}
}

func applyTimezone(req *http.Request, user *User) {
	for _, h := range timezoneHeaders {
		if v := req.Header.Get(h); v != "" {
			if isValidTimezone(v) {
				user.Preferences.Timezone = v
			}
			return
		}
	}
	if v := req.URL.Query().Get("tz"); v != "" && isValidTimezone(v) {
		user.Preferences.Timezone = v
	}
}

// isValidTimezone performs a permissive shape check; invalid values are
// ignored silently rather than rejected, per spec.md §4.1.
func isValidTimezone(v string) bool {
	return strings.Contains(v, "/") || strings.EqualFold(v, "UTC")
}

func missing() *apperr.Error {
	return apperr.New(apperr.Unauthorized, "auth.resolve_user", "missing credential").WithCode("missing")
}

func badFormat() *apperr.Error {
	return apperr.New(apperr.Unauthorized, "auth.resolve_user", "malformed bearer token").WithCode("bad_format")
}

func invalidCredentials() *apperr.Error {
	return apperr.New(apperr.Unauthorized, "auth.resolve_user", "invalid credentials").WithCode("invalid_credentials")
}
