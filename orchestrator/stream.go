package orchestrator

import (
	"context"
	"time"
)

// ProcessQueryStream runs the same pipeline as ProcessQuery but emits
// StreamEvents as they become available, per spec.md §4.6's streaming
// contract: {status, tool_result, final_response, error}, final event
// always last. The returned channel is closed once the final event (or
// an error event) has been sent.
func (o *Orchestrator) ProcessQueryStream(ctx context.Context, queryText, userRole, ownerID, conversationID string) <-chan StreamEvent {
	events := make(chan StreamEvent, 8)

	go func() {
		defer close(events)
		start := time.Now()

		if needsClarification(queryText) {
			convID, apiErr := o.ensureConversation(ctx, ownerID, conversationID, queryText)
			if apiErr != nil {
				events <- StreamEvent{Kind: EventError, Message: apiErr.Error()}
				return
			}
			resp := clarificationResponse(convID)
			resp.ProcessingTimeMs = time.Since(start).Milliseconds()
			resp.Timestamp = time.Now()
			events <- StreamEvent{Kind: EventFinalResponse, Response: &resp}
			return
		}

		events <- StreamEvent{Kind: EventStatus, Message: "classifying query"}
		queryType := Classify(queryText)
		tools := o.tools(queryType)

		events <- StreamEvent{Kind: EventStatus, Message: "dispatching tools"}
		results := o.fanOutStreaming(ctx, tools, events)

		convID, apiErr := o.ensureConversation(ctx, ownerID, conversationID, queryText)
		if apiErr != nil {
			events <- StreamEvent{Kind: EventError, Message: apiErr.Error()}
			return
		}

		resp := assembleResponse(queryType, userRole, convID, results)
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()
		resp.Timestamp = time.Now()

		if apiErr := o.conversations.AppendTurn(ctx, convID, "assistant", resp.Response); apiErr != nil {
			events <- StreamEvent{Kind: EventError, Message: apiErr.Error()}
			return
		}

		events <- StreamEvent{Kind: EventFinalResponse, Response: &resp}
	}()

	return events
}

// fanOutStreaming is FanOut's streaming twin: it emits a tool_result
// event the moment each tool completes (preserving completion order,
// per spec.md §5), reusing fanOutWithCallback for the join itself.
func (o *Orchestrator) fanOutStreaming(ctx context.Context, tools []Tool, events chan<- StreamEvent) []ToolResult {
	return fanOutWithCallback(ctx, tools, o.fanOutDeadline, func(r ToolResult) {
		events <- StreamEvent{Kind: EventToolResult, Tool: &r}
	})
}
