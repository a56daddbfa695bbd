package httpapi

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
	"github.com/jaredshillingburg/icehockey-analytics/clips"
)

func (h *handlers) listClips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := clips.Filter{
		PlayerID:  q.Get("player_id"),
		TeamCode:  q.Get("team"),
		GameID:    q.Get("game_id"),
		EventType: q.Get("event_type"),
		Status:    q.Get("status"),
		Limit:     limit,
		Offset:    offset,
	}

	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, apperr.New(apperr.Internal, "httpapi.listClips", "handler missing auth middleware"))
		return
	}

	list, apiErr := h.d.ClipRepo.List(r.Context(), filter)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	visible := make([]clips.Clip, 0, len(list))
	for _, c := range list {
		if h.d.ClipAccess.CanView(user, c) {
			visible = append(visible, c)
		}
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "clips": visible}, cache.TTLLiveScores, staleWindow)
}

func (h *handlers) clipStats(w http.ResponseWriter, r *http.Request) {
	stats, apiErr := h.d.ClipRepo.Stats(r.Context())
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "stats": stats}, cache.TTLAdvancedTeam, staleWindow)
}

// authorizedClip fetches and RBAC-checks a clip, writing the
// appropriate error response (404-before-403, per spec.md §4.7) and
// returning ok=false when the caller should stop.
func (h *handlers) authorizedClip(w http.ResponseWriter, r *http.Request) (*clips.ClipDetail, bool) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, apperr.New(apperr.Internal, "httpapi.authorizedClip", "handler missing auth middleware"))
		return nil, false
	}
	clipID := chi.URLParam(r, "clipID")
	detail, apiErr := h.d.ClipRepo.Get(r.Context(), clipID)
	if apiErr != nil {
		WriteError(w, apiErr)
		return nil, false
	}
	if apiErr := h.d.ClipAccess.Authorize(user, detail.Clip); apiErr != nil {
		WriteError(w, apiErr)
		return nil, false
	}
	return detail, true
}

func (h *handlers) clipMetadata(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.authorizedClip(w, r)
	if !ok {
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "clip": detail}, cache.TTLAdvancedTeam, staleWindow)
}

func assetByKind(detail *clips.ClipDetail, kind string) (clips.Asset, bool) {
	for _, a := range detail.Assets {
		if a.Kind == kind {
			return a, true
		}
	}
	return clips.Asset{}, false
}

func (h *handlers) serveAsset(w http.ResponseWriter, r *http.Request, detail *clips.ClipDetail, kind string) {
	asset, ok := assetByKind(detail, kind)
	if !ok {
		WriteError(w, apperr.New(apperr.NotFound, "httpapi.serveAsset", "no "+kind+" asset for this clip").WithClip(detail.ID))
		return
	}
	f, err := os.Open(asset.Path)
	if err != nil {
		WriteError(w, apperr.Wrap(err, apperr.Internal, "httpapi.serveAsset.open").WithClip(detail.ID))
		return
	}
	defer f.Close()

	if err := clips.ServeFile(w, r, f, asset.FileSize, asset.Path); err != nil {
		return
	}
}

// clipVideo streams the clip's HLS playlist when one exists, falling
// back to the MP4 asset per spec.md §4.7.
func (h *handlers) clipVideo(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.authorizedClip(w, r)
	if !ok {
		return
	}
	kind := "mp4"
	if _, ok := assetByKind(detail, "hls_playlist"); ok {
		kind = "hls_playlist"
	}
	h.serveAsset(w, r, detail, kind)
}

func (h *handlers) clipThumbnail(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.authorizedClip(w, r)
	if !ok {
		return
	}
	h.serveAsset(w, r, detail, "thumbnail")
}

// v2 clip surface: getClipV2 attaches signed URLs for a clip's mp4 and
// thumbnail assets. listClipsV2 returns the same list as v1, with no
// signed URLs, and clipVideoV2 streams bytes exactly as v1 does.
func (h *handlers) listClipsV2(w http.ResponseWriter, r *http.Request) {
	h.listClips(w, r)
}

func (h *handlers) getClipV2(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.authorizedClip(w, r)
	if !ok {
		return
	}
	out := envelope{"success": true, "clip": detail}
	if asset, ok := assetByKind(detail, "mp4"); ok {
		out["signed_video_url"] = h.d.ClipSigner.SignedURL(asset.Path)
	}
	if asset, ok := assetByKind(detail, "thumbnail"); ok {
		out["signed_thumbnail_url"] = h.d.ClipSigner.SignedURL(asset.Path)
	}
	WriteCacheable(w, r, http.StatusOK, out, cache.TTLAdvancedTeam, staleWindow)
}

func (h *handlers) clipVideoV2(w http.ResponseWriter, r *http.Request) {
	h.clipVideo(w, r)
}
