package orchestrator

import (
	"context"
	"time"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// ToolFactory builds the Tool set for a given QueryType. Callers supply
// this so the orchestrator package stays decoupled from the concrete
// analytics/market/clips wiring.
type ToolFactory func(qt QueryType) []Tool

// Orchestrator runs the query pipeline of spec.md §4.6.
type Orchestrator struct {
	conversations *ConversationStore
	tools         ToolFactory
	fanOutDeadline time.Duration
}

// NewOrchestrator wires an Orchestrator against a conversation store
// and a tool factory.
func NewOrchestrator(conversations *ConversationStore, tools ToolFactory, fanOutDeadline time.Duration) *Orchestrator {
	return &Orchestrator{conversations: conversations, tools: tools, fanOutDeadline: fanOutDeadline}
}

// ProcessQuery implements process_query(query_text, user, conversation_id?)
// of spec.md §4.6's entry contract.
func (o *Orchestrator) ProcessQuery(ctx context.Context, queryText, userRole, ownerID, conversationID string) (QueryResponse, *apperr.Error) {
	start := time.Now()

	if needsClarification(queryText) {
		convID, apiErr := o.ensureConversation(ctx, ownerID, conversationID, queryText)
		if apiErr != nil {
			return QueryResponse{}, apiErr
		}
		resp := clarificationResponse(convID)
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()
		resp.Timestamp = time.Now()
		return resp, nil
	}

	queryType := Classify(queryText)
	tools := o.tools(queryType)
	results := FanOut(ctx, tools, o.fanOutDeadline)

	convID, apiErr := o.ensureConversation(ctx, ownerID, conversationID, queryText)
	if apiErr != nil {
		return QueryResponse{}, apiErr
	}

	resp := assembleResponse(queryType, userRole, convID, results)
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	resp.Timestamp = time.Now()

	if apiErr := o.conversations.AppendTurn(ctx, convID, "assistant", resp.Response); apiErr != nil {
		return QueryResponse{}, apiErr
	}

	return resp, nil
}

// ensureConversation creates a new conversation when conversationID is
// empty, otherwise appends the user's turn to the existing one.
func (o *Orchestrator) ensureConversation(ctx context.Context, ownerID, conversationID, queryText string) (string, *apperr.Error) {
	if conversationID == "" {
		conv, apiErr := o.conversations.CreateConversation(ctx, ownerID, queryText)
		if apiErr != nil {
			return "", apiErr
		}
		return conv.ID, nil
	}
	if apiErr := o.conversations.AppendTurn(ctx, conversationID, "user", queryText); apiErr != nil {
		return "", apiErr
	}
	return conversationID, nil
}

// assembleResponse builds the response envelope from tool results, per
// spec.md §4.6 steps 4-7. Per-tool failures are downgraded to warnings
// unless every tool failed, in which case the envelope carries
// success=false, per spec.md §7's error policy.
func assembleResponse(queryType QueryType, userRole, conversationID string, results []ToolResult) QueryResponse {
	var warnings, errs []string
	anySucceeded := false
	for _, r := range results {
		if r.Success {
			anySucceeded = true
		}
		if r.Warning != "" {
			warnings = append(warnings, r.Warning)
		}
	}

	success := anySucceeded || len(results) == 0
	if !success {
		errs = append(errs, "all tools failed")
	}

	responseText := ""
	for _, r := range results {
		if r.Success && r.Text != "" {
			if responseText != "" {
				responseText += "\n\n"
			}
			responseText += r.Text
		}
	}

	return QueryResponse{
		Success:        success,
		Response:       responseText,
		QueryType:      queryType,
		ToolResults:    results,
		Evidence:       MergeEvidence(results),
		Citations:      MergeCitations(results),
		Analytics:      AssembleAnalytics(results),
		UserRole:       userRole,
		ConversationID: conversationID,
		Errors:         errs,
		Warnings:       warnings,
	}
}
