// Package orchestrator implements the Query Orchestrator of spec.md
// §4.6: a clarification gate, lexical query classification, concurrent
// tool fan-out with a bounded deadline, evidence/citation merge,
// analytics-block assembly, conversation persistence, and a streaming
// SSE variant. Concurrency is grounded on
// services/request_deduplication.go's wait-group/channel idiom;
// conversation persistence follows clips/repo.go's sqlx repository
// shape.
package orchestrator

import "time"

// QueryType classifies an inbound query for tool-plan selection.
type QueryType string

const (
	QueryPlayerPerformance QueryType = "player-performance"
	QueryTeamAnalytics     QueryType = "team-analytics"
	QueryGameAnalysis      QueryType = "game-analysis"
	QueryMatchup           QueryType = "matchup"
	QueryTactical          QueryType = "tactical"
	QueryStatistical       QueryType = "statistical"
	QueryClipRetrieval     QueryType = "clip-retrieval"
	QueryClarification     QueryType = "clarification"
)

// ToolResult is the outcome of one dispatched tool.
type ToolResult struct {
	Tool       string
	Success    bool
	Warning    string
	Text       string
	Evidence   []string
	Citations  []string
	Clips      []ClipRef
	Duration   time.Duration
}

// ClipRef is the minimal clip identity a tool contributes; the merge
// step deduplicates by ClipID before assembling an AnalyticsBlock.
type ClipRef struct {
	ClipID string
	Title  string
}

// AnalyticsBlock is a typed payload promoted from tool output.
type AnalyticsBlock struct {
	Type string // "clips" is the only type AssembleAnalytics produces
	Data any
}

// QueryResponse is the full envelope of spec.md §4.6 step 7.
type QueryResponse struct {
	Success          bool
	Response         string
	QueryType        QueryType
	ToolResults      []ToolResult
	ProcessingTimeMs int64
	Evidence         []string
	Citations        []string
	Analytics        []AnalyticsBlock
	UserRole         string
	ConversationID   string
	Timestamp        time.Time
	Errors           []string
	Warnings         []string
}

// StreamEventKind tags one emitted streaming event, per spec.md §4.6's
// streaming contract.
type StreamEventKind string

const (
	EventStatus        StreamEventKind = "status"
	EventToolResult    StreamEventKind = "tool_result"
	EventFinalResponse StreamEventKind = "final_response"
	EventError         StreamEventKind = "error"
)

// StreamEvent is one SSE payload.
type StreamEvent struct {
	Kind     StreamEventKind
	Message  string
	Tool     *ToolResult
	Response *QueryResponse
}
