package clips

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// streamBufferSize is the chunk size for MP4 byte streaming, per
// spec.md §4.7 ("streaming buffer ≈1 MiB").
const streamBufferSize = 1 << 20

var rangeRe = regexp.MustCompile(`^bytes=(\d*)-(\d*)$`)

// contentTypeByExt whitelists known extensions; unknown types default to
// application/octet-stream per spec.md §4.7.
var contentTypeByExt = map[string]string{
	".mp4":  "video/mp4",
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ContentType resolves a response content type by file extension.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypeByExt[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// byteRange is a validated [Start, End] range, both ends inclusive.
type byteRange struct {
	Start, End int64
}

// parseRange parses a `Range: bytes=start-end` header against a file of
// the given size. It clips to [0, size-1]; an invalid or unsatisfiable
// spec causes ok=false, signaling the caller to fall back to a full-file
// response, per spec.md §4.7.
func parseRange(header string, size int64) (byteRange, bool) {
	m := rangeRe.FindStringSubmatch(header)
	if m == nil || size <= 0 {
		return byteRange{}, false
	}
	startStr, endStr := m[1], m[2]

	var start, end int64
	var err error
	switch {
	case startStr == "" && endStr == "":
		return byteRange{}, false
	case startStr == "":
		// suffix range: last N bytes
		n, perr := strconv.ParseInt(endStr, 10, 64)
		if perr != nil || n <= 0 {
			return byteRange{}, false
		}
		if n > size {
			n = size
		}
		start = size - n
		end = size - 1
	case endStr == "":
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return byteRange{}, false
		}
		end = size - 1
	default:
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return byteRange{}, false
		}
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return byteRange{}, false
		}
	}

	if start < 0 {
		start = 0
	}
	if end > size-1 {
		end = size - 1
	}
	if start > end {
		return byteRange{}, false
	}
	return byteRange{Start: start, End: end}, true
}

// ServeFile streams path's bytes to w, honoring an MP4 Range request when
// present. content is any io.ReaderAt (an *os.File, or an in-memory
// reader in tests) and size is its length in bytes.
func ServeFile(w http.ResponseWriter, req *http.Request, content io.ReaderAt, size int64, path string) error {
	contentType := ContentType(path)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "public, max-age=3600, stale-while-revalidate=86400")

	rangeHeader := req.Header.Get("Range")
	isMP4 := strings.EqualFold(filepath.Ext(path), ".mp4")

	if isMP4 && rangeHeader != "" {
		if rng, ok := parseRange(rangeHeader, size); ok {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, size))
			w.Header().Set("Content-Length", strconv.FormatInt(rng.End-rng.Start+1, 10))
			w.WriteHeader(http.StatusPartialContent)
			return copyRange(w, content, rng.Start, rng.End)
		}
	}

	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	return copyRange(w, content, 0, size-1)
}

// copyRange streams [start, end] inclusive from content to w in
// streamBufferSize chunks.
func copyRange(w io.Writer, content io.ReaderAt, start, end int64) error {
	remaining := end - start + 1
	buf := make([]byte, streamBufferSize)
	offset := start
	for remaining > 0 {
		chunk := int64(len(buf))
		if remaining < chunk {
			chunk = remaining
		}
		n, err := content.ReadAt(buf[:chunk], offset)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			offset += int64(n)
			remaining -= int64(n)
		}
		if err != nil {
			if err == io.EOF && remaining == 0 {
				return nil
			}
			return err
		}
	}
	return nil
}
