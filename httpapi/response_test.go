package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

func TestWriteJSON_SanitizesNonFiniteFloats(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, envelope{"score": math.NaN()})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["score"])
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestWriteOK_MergesFieldsIntoSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteOK(w, envelope{"clips": []string{"a"}})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteError_MapsKindToStatusAndChallenge(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, apperr.New(apperr.Unauthorized, "test", "missing token"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "missing token", body["error"])
	assert.NotEmpty(t, body["ts"])
}

func TestWriteError_IncludesErrorCodeWhenSet(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, apperr.New(apperr.BadRequest, "test", "bad").WithCode("bad_request"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body["error_code"])
}

func TestWriteCacheable_SetsETagAndCacheControl(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "v": 1}, 30*time.Second, 300*time.Second)

	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=30, stale-while-revalidate=300", w.Header().Get("Cache-Control"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteCacheable_MatchingIfNoneMatchReturns304(t *testing.T) {
	data := envelope{"success": true, "v": 1}

	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	w1 := httptest.NewRecorder()
	WriteCacheable(w1, r1, http.StatusOK, data, time.Second, time.Second)
	etag := w1.Header().Get("ETag")
	require.NotEmpty(t, etag)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	WriteCacheable(w2, r2, http.StatusOK, data, time.Second, time.Second)

	assert.Equal(t, http.StatusNotModified, w2.Code)
}
