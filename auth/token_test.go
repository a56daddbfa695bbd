package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

func testStore() *PrincipalStore {
	return NewPrincipalStore([]Principal{
		{Username: "coach_martin", Secret: "s3cret", Role: RoleCoach, DisplayName: "Martin St-Louis"},
		{Username: "player_suzuki", Secret: "pw", Role: RolePlayer, DisplayName: "Nick Suzuki"},
	})
}

func bearer(username, secret string) string {
	return "Bearer " + base64.StdEncoding.EncodeToString([]byte(username+":"+secret))
}

func TestResolveUser_Success(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer("coach_martin", "s3cret"))

	user, appErr := r.ResolveUser(req)
	require.Nil(t, appErr)
	assert.Equal(t, RoleCoach, user.Role)
}

func TestResolveUser_Missing(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, appErr := r.ResolveUser(req)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.Unauthorized, appErr.Kind)
	assert.Equal(t, "missing", appErr.Code)
	assert.True(t, appErr.RequiresChallenge())
}

func TestResolveUser_BadFormat(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-base64!!")

	_, appErr := r.ResolveUser(req)
	require.NotNil(t, appErr)
	assert.Equal(t, "bad_format", appErr.Code)
}

func TestResolveUser_InvalidCredentials(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer("coach_martin", "wrong"))

	_, appErr := r.ResolveUser(req)
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid_credentials", appErr.Code)
}

func TestResolveUserPermissive_AcceptsQueryToken(t *testing.T) {
	r := NewResolver(testStore(), false)
	tok := base64.StdEncoding.EncodeToString([]byte("player_suzuki:pw"))
	req := httptest.NewRequest(http.MethodGet, "/?token="+tok, nil)

	user, appErr := r.ResolveUserPermissive(req)
	require.Nil(t, appErr)
	assert.Equal(t, RolePlayer, user.Role)
}

func TestResolveUserPermissive_OpenMediaFallback(t *testing.T) {
	r := NewResolver(testStore(), true)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	user, appErr := r.ResolveUserPermissive(req)
	require.Nil(t, appErr)
	assert.Equal(t, "open-media", user.UserID)
}

func TestApplyTimezone_InvalidValueIgnoredSilently(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer("coach_martin", "s3cret"))
	req.Header.Set("x-timezone", "not-a-tz")

	user, appErr := r.ResolveUser(req)
	require.Nil(t, appErr)
	assert.Equal(t, "", user.Preferences.Timezone)
}

func TestApplyTimezone_ValidValueApplied(t *testing.T) {
	r := NewResolver(testStore(), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer("coach_martin", "s3cret"))
	req.Header.Set("x-timezone", "America/Montreal")

	user, appErr := r.ResolveUser(req)
	require.Nil(t, appErr)
	assert.Equal(t, "America/Montreal", user.Preferences.Timezone)
}
