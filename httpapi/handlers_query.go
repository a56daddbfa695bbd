package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

type queryRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id"`
}

// runQuery implements POST /api/v1/query[/], per spec.md §4.6's entry
// contract.
func (h *handlers) runQuery(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.runQuery", "malformed request body"))
		return
	}

	resp, apiErr := h.d.Orchestrator.ProcessQuery(r.Context(), req.Query, string(user.Role), user.UserID, req.ConversationID)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{
		"response":           resp.Response,
		"query_type":         resp.QueryType,
		"tool_results":       resp.ToolResults,
		"processing_time_ms": resp.ProcessingTimeMs,
		"evidence":           resp.Evidence,
		"citations":          resp.Citations,
		"analytics":          resp.Analytics,
		"user_role":          resp.UserRole,
		"conversation_id":    resp.ConversationID,
		"ts":                 resp.Timestamp,
		"errors":             resp.Errors,
		"warnings":           resp.Warnings,
	})
}

// streamQuery implements POST /api/v1/query/stream, relaying the
// orchestrator's StreamEvent channel as Server-Sent Events.
func (h *handlers) streamQuery(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.streamQuery", "malformed request body"))
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := h.d.Orchestrator.ProcessQueryStream(r.Context(), req.Query, string(user.Role), user.UserID, req.ConversationID)
	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
		if canFlush {
			flusher.Flush()
		}
	}
}

// listConversations implements GET /api/v1/query/conversations.
func (h *handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	convs, apiErr := h.d.Conversations.ListByOwner(r.Context(), user.UserID)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{"conversations": convs})
}

// createConversation implements POST /api/v1/query/conversations: an
// empty conversation shell the client can immediately append turns to
// via POST /query with its id.
func (h *handlers) createConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	conv, apiErr := h.d.Conversations.CreateConversation(r.Context(), user.UserID, req.Title)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteJSON(w, http.StatusCreated, envelope{"success": true, "conversation": conv})
}

// getConversation implements GET /api/v1/query/conversations/{id}.
func (h *handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "conversationID")
	detail, apiErr := h.d.Conversations.Get(r.Context(), user.UserID, id)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{"conversation": detail})
}

// renameConversation implements PUT /api/v1/query/conversations/{id}.
func (h *handlers) renameConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "conversationID")
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperr.New(apperr.BadRequest, "httpapi.renameConversation", "malformed request body"))
		return
	}
	if apiErr := h.d.Conversations.Rename(r.Context(), user.UserID, id, req.Title); apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{"conversation_id": id, "title": req.Title})
}

// deleteConversation implements DELETE /api/v1/query/conversations/{id}.
func (h *handlers) deleteConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "conversationID")
	if apiErr := h.d.Conversations.Delete(r.Context(), user.UserID, id); apiErr != nil {
		WriteError(w, apiErr)
		return
	}
	WriteOK(w, envelope{"conversation_id": id, "deleted": true})
}
