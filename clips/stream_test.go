package clips

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType_KnownExtensions(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentType("clips/a/b.mp4"))
	assert.Equal(t, "application/vnd.apple.mpegurl", ContentType("clips/a/playlist.m3u8"))
	assert.Equal(t, "application/octet-stream", ContentType("clips/a/b.unknownext"))
}

func TestParseRange_StartEndWithinBounds(t *testing.T) {
	rng, ok := parseRange("bytes=0-99", 1000)
	require.True(t, ok)
	assert.Equal(t, int64(0), rng.Start)
	assert.Equal(t, int64(99), rng.End)
}

func TestParseRange_OpenEndedClipsToFileSize(t *testing.T) {
	rng, ok := parseRange("bytes=900-", 1000)
	require.True(t, ok)
	assert.Equal(t, int64(900), rng.Start)
	assert.Equal(t, int64(999), rng.End)
}

func TestParseRange_SuffixRangeLastNBytes(t *testing.T) {
	rng, ok := parseRange("bytes=-100", 1000)
	require.True(t, ok)
	assert.Equal(t, int64(900), rng.Start)
	assert.Equal(t, int64(999), rng.End)
}

func TestParseRange_StartBeyondEndOfFileIsInvalid(t *testing.T) {
	_, ok := parseRange("bytes=2000-2100", 1000)
	assert.False(t, ok)
}

func TestParseRange_MalformedHeaderIsInvalid(t *testing.T) {
	_, ok := parseRange("not-a-range", 1000)
	assert.False(t, ok)
}

func TestServeFile_MP4WithRangeReturnsPartialContent(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 2000)
	reader := bytes.NewReader(content)

	req := httptest.NewRequest("GET", "/media/clip.mp4", nil)
	req.Header.Set("Range", "bytes=0-499")
	rec := httptest.NewRecorder()

	err := ServeFile(rec, req, reader, int64(len(content)), "clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, 206, rec.Code)
	assert.Equal(t, "bytes 0-499/2000", rec.Header().Get("Content-Range"))
	assert.Equal(t, "500", rec.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, 500, rec.Body.Len())
}

func TestServeFile_MP4WithoutRangeReturnsFullFile(t *testing.T) {
	content := bytes.Repeat([]byte("y"), 1500)
	reader := bytes.NewReader(content)

	req := httptest.NewRequest("GET", "/media/clip.mp4", nil)
	rec := httptest.NewRecorder()

	err := ServeFile(rec, req, reader, int64(len(content)), "clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, 1500, rec.Body.Len())
}

func TestServeFile_HLSPlaylistIgnoresRangeHeader(t *testing.T) {
	content := []byte("#EXTM3U\n#EXT-X-VERSION:3\n")
	reader := bytes.NewReader(content)

	req := httptest.NewRequest("GET", "/media/playlist.m3u8", nil)
	req.Header.Set("Range", "bytes=0-5")
	rec := httptest.NewRecorder()

	err := ServeFile(rec, req, reader, int64(len(content)), "playlist.m3u8")
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", rec.Header().Get("Content-Type"))
	assert.Equal(t, len(content), rec.Body.Len())
}

func TestServeFile_InvalidRangeFallsBackToFullFile(t *testing.T) {
	content := bytes.Repeat([]byte("z"), 100)
	reader := bytes.NewReader(content)

	req := httptest.NewRequest("GET", "/media/clip.mp4", nil)
	req.Header.Set("Range", "bytes=500-600")
	rec := httptest.NewRecorder()

	err := ServeFile(rec, req, reader, int64(len(content)), "clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, 100, rec.Body.Len())
}
