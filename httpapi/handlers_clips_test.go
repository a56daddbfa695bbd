package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaredshillingburg/icehockey-analytics/auth"
	"github.com/jaredshillingburg/icehockey-analytics/clips"
)

func newMockClipRepo(t *testing.T) (*clips.Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "postgres")
	return clips.NewRepo(sqlxDB, 5*time.Second), mock
}

func userContext(r *http.Request, u *auth.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, u))
}

func sqlNoRows() error {
	return sql.ErrNoRows
}

func TestListClips_AppliesQueryFilters(t *testing.T) {
	repo, mock := newMockClipRepo(t)
	rows := sqlmock.NewRows([]string{"id", "player_id", "team_code", "game_id", "event_type", "status", "title", "created_at"}).
		AddRow("c1", "8480018", "MTL", "g1", "goal", "ready", "Top shelf", time.Now())
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("", "MTL", "", "", "", 500, 0).
		WillReturnRows(rows)

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, false)

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/clips?team=MTL", nil)
	r = userContext(r, &auth.User{UserID: "coach1", Role: auth.RoleCoach})
	w := httptest.NewRecorder()
	h.listClips(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListClips_FiltersRowsByRBAC(t *testing.T) {
	repo, mock := newMockClipRepo(t)
	rows := sqlmock.NewRows([]string{"id", "player_id", "team_code", "game_id", "event_type", "status", "title", "created_at"}).
		AddRow("c1", "8480018", "MTL", "g1", "goal", "ready", "Own clip", time.Now()).
		AddRow("c2", "9999999", "MTL", "g2", "goal", "ready", "Someone else's clip", time.Now())
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("", "", "", "", "", 500, 0).
		WillReturnRows(rows)

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, false)

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/clips", nil)
	r = userContext(r, &auth.User{UserID: "p1", Role: auth.RolePlayer, Preferences: auth.Preferences{PlayerID: "8480018"}})
	w := httptest.NewRecorder()
	h.listClips(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Clips []clips.Clip `json:"clips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Clips, 1)
	assert.Equal(t, "c1", body.Clips[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizedClip_NotFoundBeforeAuthorization(t *testing.T) {
	repo, mock := newMockClipRepo(t)
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("missing").
		WillReturnError(sqlNoRows())

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, false)

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access}}
	r := requestWithURLParam(http.MethodGet, "/api/v1/clips/missing/metadata", "clipID", "missing", nil)
	r = userContext(r, &auth.User{UserID: "u1", Role: auth.RolePlayer})
	w := httptest.NewRecorder()

	_, ok := h.authorizedClip(w, r)
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorizedClip_ForbiddenWhenPlayerMismatch(t *testing.T) {
	repo, mock := newMockClipRepo(t)
	clipRows := sqlmock.NewRows([]string{"id", "player_id", "team_code", "game_id", "event_type", "status", "title", "created_at"}).
		AddRow("c1", "8480018", "MTL", "g1", "goal", "ready", "Top shelf", time.Now())
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("c1").
		WillReturnRows(clipRows)
	mock.ExpectQuery("SELECT (.+) FROM media.clip_assets").WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "clip_id", "kind", "path", "file_size"}))
	mock.ExpectQuery("SELECT (.+) FROM media.clip_tags").WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"clip_id", "tag"}))

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, false)

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access}}
	r := requestWithURLParam(http.MethodGet, "/api/v1/clips/c1/metadata", "clipID", "c1", nil)
	r = userContext(r, &auth.User{UserID: "u2", Role: auth.RolePlayer, Preferences: auth.Preferences{PlayerID: "9999999"}})
	w := httptest.NewRecorder()

	_, ok := h.authorizedClip(w, r)
	assert.False(t, ok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClipVideo_PrefersHLSPlaylistOverMP4(t *testing.T) {
	dir := t.TempDir()
	playlistPath := dir + "/c1.m3u8"
	require.NoError(t, os.WriteFile(playlistPath, []byte("#EXTM3U\n"), 0o600))

	repo, mock := newMockClipRepo(t)
	clipRows := sqlmock.NewRows([]string{"id", "player_id", "team_code", "game_id", "event_type", "status", "title", "created_at"}).
		AddRow("c1", "8480018", "MTL", "g1", "goal", "ready", "Top shelf", time.Now())
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("c1").
		WillReturnRows(clipRows)
	assetRows := sqlmock.NewRows([]string{"id", "clip_id", "kind", "path", "file_size"}).
		AddRow("a1", "c1", "mp4", "/media/c1.mp4", int64(2048)).
		AddRow("a2", "c1", "hls_playlist", playlistPath, int64(8))
	mock.ExpectQuery("SELECT (.+) FROM media.clip_assets").WithArgs("c1").WillReturnRows(assetRows)
	mock.ExpectQuery("SELECT (.+) FROM media.clip_tags").WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"clip_id", "tag"}))

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, true)

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access}}
	r := requestWithURLParam(http.MethodGet, "/api/v1/clips/c1/video", "clipID", "c1", nil)
	r = userContext(r, &auth.User{UserID: "coach1", Role: auth.RoleCoach})
	w := httptest.NewRecorder()
	h.clipVideo(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", w.Header().Get("Content-Type"))
}

func TestGetClipV2_AttachesSignedURLs(t *testing.T) {
	repo, mock := newMockClipRepo(t)
	clipRows := sqlmock.NewRows([]string{"id", "player_id", "team_code", "game_id", "event_type", "status", "title", "created_at"}).
		AddRow("c1", "8480018", "MTL", "g1", "goal", "ready", "Top shelf", time.Now())
	mock.ExpectQuery("SELECT id, player_id, team_code, game_id, event_type, status, title, created_at").
		WithArgs("c1").
		WillReturnRows(clipRows)
	assetRows := sqlmock.NewRows([]string{"id", "clip_id", "kind", "path", "file_size"}).
		AddRow("a1", "c1", "mp4", "/media/c1.mp4", int64(1024))
	mock.ExpectQuery("SELECT (.+) FROM media.clip_assets").WithArgs("c1").WillReturnRows(assetRows)
	mock.ExpectQuery("SELECT (.+) FROM media.clip_tags").WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"clip_id", "tag"}))

	enforcer, err := auth.NewEnforcer()
	require.NoError(t, err)
	access := clips.NewAccessChecker(enforcer, true)
	signer := clips.NewSigner("https://cdn.example.com", []byte("secret"))

	h := &handlers{d: Deps{ClipRepo: repo, ClipAccess: access, ClipSigner: signer}}
	r := requestWithURLParam(http.MethodGet, "/api/v2/clips/c1", "clipID", "c1", nil)
	r = userContext(r, &auth.User{UserID: "coach1", Role: auth.RoleCoach})
	w := httptest.NewRecorder()
	h.getClipV2(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["signed_video_url"])
}
