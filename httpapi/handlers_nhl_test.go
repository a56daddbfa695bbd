package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaredshillingburg/icehockey-analytics/nhlapi"
)

func TestNHLScores_MissingDateIsBadRequest(t *testing.T) {
	h := &handlers{d: Deps{NHL: nhlapi.NewClient(100, 10)}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/nhl/scores", nil)
	w := httptest.NewRecorder()
	h.nhlScores(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNHLScores_ProxiesUpstreamResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games":[]}`))
	}))
	defer server.Close()

	h := &handlers{d: Deps{NHL: nhlapi.NewClient(100, 10).WithBaseURL(server.URL)}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/nhl/scores?date=2024-01-01", nil)
	w := httptest.NewRecorder()
	h.nhlScores(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}

func TestNHLSchedule_MissingTeamIsBadRequest(t *testing.T) {
	h := &handlers{d: Deps{NHL: nhlapi.NewClient(100, 10)}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/nhl/schedule", nil)
	w := httptest.NewRecorder()
	h.nhlSchedule(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNHLLeaders_DefaultsCategoryAndLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.String(), "categories=points")
		assert.Contains(t, r.URL.String(), "limit=10")
		w.Write([]byte(`{"leaders":[]}`))
	}))
	defer server.Close()

	h := &handlers{d: Deps{NHL: nhlapi.NewClient(100, 10).WithBaseURL(server.URL)}}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/nhl/leaders", nil)
	w := httptest.NewRecorder()
	h.nhlLeaders(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestNHLBoxscore_InvalidGameIDIsBadRequest(t *testing.T) {
	h := &handlers{d: Deps{NHL: nhlapi.NewClient(100, 10)}}
	r := requestWithURLParam(http.MethodGet, "/api/v1/analytics/nhl/game/abc/boxscore", "gameID", "abc", nil)
	w := httptest.NewRecorder()
	h.nhlBoxscore(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
