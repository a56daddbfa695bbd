package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jaredshillingburg/icehockey-analytics/analytics"
	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
)

// staleWindow is the stale-while-revalidate grace period applied
// uniformly across analytics/NHL-proxy responses, per spec.md §6.
const staleWindow = 10 * cache.TTLStandings

// playersRequest feeds PFITopN directly off caller-supplied rows. No
// package in this repository turns nhlapi's raw JSON into
// analytics.PlayerGameRow/TeamGameRow/RTIInput — that extraction is an
// upstream ETL concern spec.md leaves unspecified — so these endpoints
// take the already-extracted rows as their request body rather than
// reaching into nhlapi themselves. See DESIGN.md.
type playersRequest struct {
	Rows []analytics.PlayerGameRow `json:"rows"`
	TopN int                       `json:"top_n"`
}

func (h *handlers) analyticsPlayers(w http.ResponseWriter, r *http.Request) {
	var req playersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.analyticsPlayers", "malformed request body"))
		return
	}
	topN := req.TopN
	if topN <= 0 {
		topN = 10
	}
	results := analytics.PFITopN(req.Rows, topN)
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "players": results}, cache.TTLAdvancedTeam, staleWindow)
}

type teamsRequest struct {
	TeamCode string                  `json:"team_code"`
	Rows     []analytics.TeamGameRow `json:"rows"`
}

func (h *handlers) analyticsTeams(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.analyticsTeams", "malformed request body"))
		return
	}
	trend := analytics.ComputeTeamTrend(req.TeamCode, req.Rows)
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "team_trend": trend}, cache.TTLAdvancedTeam, staleWindow)
}

// analyticsQueryRequest drives the combined RTI/FSP query endpoint: RTI
// over the supplied division inputs, then FSP for focusTeam using that
// team's trend plus its top-3 PFI scores, when both are supplied.
type analyticsQueryRequest struct {
	RTIInputs []analytics.RTIInput    `json:"rti_inputs"`
	FocusTeam string                  `json:"focus_team"`
	TeamRows  []analytics.TeamGameRow `json:"team_rows"`
	Top3PFI   []float64               `json:"top3_pfi"`
}

func (h *handlers) analyticsQuery(w http.ResponseWriter, r *http.Request) {
	var req analyticsQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.analyticsQuery", "malformed request body"))
		return
	}

	rti := analytics.RTITopN(req.RTIInputs)
	out := envelope{"success": true, "rti": rti}

	if req.FocusTeam != "" {
		trend := analytics.ComputeTeamTrend(req.FocusTeam, req.TeamRows)
		out["team_trend"] = trend
		out["fsp"] = analytics.ComputeFSP(req.FocusTeam, trend, req.Top3PFI)
	}
	WriteJSON(w, http.StatusOK, out)
}

// mtlAdvanced implements GET /api/v1/analytics/mtl/advanced?window=N,
// a fixed-team convenience wrapper around team trends for the
// dashboard's home-team panel. Since there is no ingestion adapter
// feeding TeamGameRow from nhlapi (see above), this reports the trend
// over whatever rows the window/season selects from an as-yet-unbuilt
// warehouse read — today it returns the neutral-baseline trend for an
// empty row set, which callers can compare against a future populated
// response.
func (h *handlers) mtlAdvanced(w http.ResponseWriter, r *http.Request) {
	window := 10
	if v := r.URL.Query().Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = n
		}
	}
	season := r.URL.Query().Get("season")

	trend := analytics.ComputeTeamTrend("MTL", nil)
	WriteCacheable(w, r, http.StatusOK, envelope{
		"success": true,
		"team":    "MTL",
		"window":  window,
		"season":  season,
		"trend":   trend,
	}, cache.TTLAdvancedTeam, staleWindow)
}

func (h *handlers) nhlScores(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.nhlScores", "date query parameter is required"))
		return
	}
	scores, apiErr := h.d.NHL.FetchScores(r.Context(), date)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "scores": scores}, cache.TTLLiveScores, staleWindow)
}

func (h *handlers) nhlSchedule(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.nhlSchedule", "team query parameter is required"))
		return
	}
	raw, apiErr := h.d.NHL.FetchSchedule(r.Context(), team)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	writeRawCacheable(w, r, raw)
}

func (h *handlers) nhlStandings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	var rows any
	var apiErr *apperr.Error
	if date == "" {
		rows, apiErr = h.d.NHL.FetchStandings(r.Context())
	} else {
		rows, apiErr = h.d.NHL.FetchStandingsByDate(r.Context(), date)
	}
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "standings": rows}, cache.TTLStandings, staleWindow)
}

func (h *handlers) nhlLeaders(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	raw, apiErr := h.d.NHL.FetchSkaterLeaders(r.Context(), category, limit)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	writeRawCacheable(w, r, raw)
}

func (h *handlers) nhlBoxscore(w http.ResponseWriter, r *http.Request) {
	gameID, apiErr := parseGameID(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	raw, fetchErr := h.d.NHL.FetchBoxscore(r.Context(), gameID)
	if fetchErr != nil {
		WriteError(w, fetchErr)
		return
	}
	writeRawCacheable(w, r, raw)
}

func (h *handlers) nhlPlayByPlay(w http.ResponseWriter, r *http.Request) {
	gameID, apiErr := parseGameID(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	raw, fetchErr := h.d.NHL.FetchPlayByPlay(r.Context(), gameID)
	if fetchErr != nil {
		WriteError(w, fetchErr)
		return
	}
	writeRawCacheable(w, r, raw)
}

func (h *handlers) nhlGameLanding(w http.ResponseWriter, r *http.Request) {
	gameID, apiErr := parseGameID(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	raw, fetchErr := h.d.NHL.FetchGameLanding(r.Context(), gameID)
	if fetchErr != nil {
		WriteError(w, fetchErr)
		return
	}
	writeRawCacheable(w, r, raw)
}

func parseGameID(r *http.Request) (int, *apperr.Error) {
	raw := chi.URLParam(r, "gameID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(apperr.BadRequest, "httpapi.parseGameID", "game id must be numeric")
	}
	return id, nil
}

// writeRawCacheable writes an already-encoded JSON payload wrapped in
// the success envelope, still applying ETag/Cache-Control headers.
func writeRawCacheable(w http.ResponseWriter, r *http.Request, raw json.RawMessage) {
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "data": raw}, cache.TTLSchedule, staleWindow)
}
