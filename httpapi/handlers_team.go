package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/jaredshillingburg/icehockey-analytics/analytics"
	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
)

// teamAdvanced implements GET /api/v1/team/{team}/advanced: the same
// Team Trends computation analyticsTeams exposes, keyed by the path's
// team code rather than a body field.
func (h *handlers) teamAdvanced(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	var req struct {
		Rows []analytics.TeamGameRow `json:"rows"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	trend := analytics.ComputeTeamTrend(team, req.Rows)
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "team": team, "trend": trend}, cache.TTLAdvancedTeam, staleWindow)
}

// rotationRow is one player's ice-time entry for a rotation/deployment
// summary, fed in via request body (the same row-via-body pattern as
// the other analytics endpoints; no per-shift rotation model exists
// anywhere in this repository's corpus to derive this from raw NHL
// feeds instead — see DESIGN.md).
type rotationRow struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TOI        string `json:"toi"` // MM:SS, parsed via analytics.ParseTOI
}

// rotationShare is one player's share of a team's total ice time.
type rotationShare struct {
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	TOISeconds  float64 `json:"toi_seconds"`
	SharePct    float64 `json:"share_pct"`
}

func computeShares(rows []rotationRow) []rotationShare {
	total := 0.0
	toi := make([]float64, len(rows))
	for i, row := range rows {
		toi[i] = analytics.ParseTOI(row.TOI)
		total += toi[i]
	}

	out := make([]rotationShare, len(rows))
	for i, row := range rows {
		share := 0.0
		if total > 0 {
			share = toi[i] / total * 100
		}
		out[i] = rotationShare{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			TOISeconds: toi[i],
			SharePct:   share,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TOISeconds > out[j].TOISeconds })
	return out
}

// teamRotations implements GET /api/v1/team/{team}/rotations: ranks
// the supplied roster by ice-time share for the selected window.
func (h *handlers) teamRotations(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	var req struct {
		Rows []rotationRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.teamRotations", "malformed request body"))
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{
		"success":   true,
		"team":      team,
		"rotations": computeShares(req.Rows),
	}, cache.TTLAdvancedTeam, staleWindow)
}

// teamGameDeployments implements GET /api/v1/team/game/{id}/deployments:
// the same ice-time-share ranking, scoped to a single game id.
func (h *handlers) teamGameDeployments(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	var req struct {
		Rows []rotationRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.teamGameDeployments", "malformed request body"))
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{
		"success":     true,
		"game_id":     gameID,
		"deployments": computeShares(req.Rows),
	}, cache.TTLLiveScores, staleWindow)
}
