package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
	"github.com/jaredshillingburg/icehockey-analytics/market"
)

func (h *handlers) marketContract(w http.ResponseWriter, r *http.Request) {
	playerIDOrName := chi.URLParam(r, "playerIDOrName")
	team := r.URL.Query().Get("team")
	season := r.URL.Query().Get("season")

	contract, apiErr := h.d.Market.ResolveContract(r.Context(), playerIDOrName, team, season)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "contract": contract}, cache.TTLCapContracts, staleWindow)
}

func (h *handlers) marketCap(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	season := r.URL.Query().Get("season")

	summary, apiErr := h.d.Market.TeamCapSummary(r.Context(), team, season)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "cap_summary": summary}, cache.TTLCapContracts, staleWindow)
}

func (h *handlers) marketTrades(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	trades, apiErr := h.d.Market.ListTrades(r.Context(), team, 0)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "trades": trades}, cache.TTLCapContracts, staleWindow)
}

func (h *handlers) marketLeagueOverview(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.marketLeagueOverview", "season query parameter is required"))
		return
	}
	overview, apiErr := h.d.Market.LeagueOverview(r.Context(), season)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "league_overview": overview}, cache.TTLCapContracts, staleWindow)
}

func (h *handlers) marketDepthChart(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	season := r.URL.Query().Get("season")
	if season == "" {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.marketDepthChart", "season query parameter is required"))
		return
	}
	chart, apiErr := h.d.Market.DepthChart(r.Context(), team, season)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteCacheable(w, r, http.StatusOK, envelope{"success": true, "depth_chart": chart}, cache.TTLCapContracts, staleWindow)
}

func (h *handlers) marketSkaterEfficiency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Inputs   market.SkaterInputs    `json:"inputs"`
		Baseline market.PositionBaseline `json:"baseline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.marketSkaterEfficiency", "malformed request body"))
		return
	}
	result := market.ComputeSkaterEfficiency(req.Inputs, req.Baseline)
	WriteJSON(w, http.StatusOK, envelope{"success": true, "efficiency": result})
}

func (h *handlers) marketGoalieEfficiency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Inputs   market.GoalieInputs    `json:"inputs"`
		Baseline market.PositionBaseline `json:"baseline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.marketGoalieEfficiency", "malformed request body"))
		return
	}
	result := market.ComputeGoalieEfficiency(req.Inputs, req.Baseline)
	WriteJSON(w, http.StatusOK, envelope{"success": true, "efficiency": result})
}

func (h *handlers) marketComparables(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target     market.ComparablesInputs   `json:"target"`
		Candidates []market.ComparablesInputs `json:"candidates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.marketComparables", "malformed request body"))
		return
	}

	type scored struct {
		Candidate  market.ComparablesInputs `json:"candidate"`
		Similarity float64                  `json:"similarity"`
	}
	out := make([]scored, len(req.Candidates))
	for i, c := range req.Candidates {
		out[i] = scored{Candidate: c, Similarity: market.ComparablesSimilarity(req.Target, c)}
	}
	WriteJSON(w, http.StatusOK, envelope{"success": true, "comparables": out})
}
