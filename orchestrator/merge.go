package orchestrator

// MergeEvidence combines text evidence across tool results, preserving
// first-seen order, per spec.md §4.6 step 4.
func MergeEvidence(results []ToolResult) []string {
	var merged []string
	for _, r := range results {
		merged = append(merged, r.Evidence...)
	}
	return merged
}

// MergeCitations combines citations across tool results, deduplicating
// by value while preserving first-seen order, per spec.md §4.6 step 4.
func MergeCitations(results []ToolResult) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, r := range results {
		for _, c := range r.Citations {
			if !seen[c] {
				seen[c] = true
				merged = append(merged, c)
			}
		}
	}
	return merged
}

// AssembleAnalytics builds the response's AnalyticsBlocks from tool
// outputs, per spec.md §4.6 step 5. Only clip output becomes a block:
// clips across every tool result are deduplicated by ClipID and folded
// into exactly one AnalyticsBlock{Type: "clips"}, even when several
// tools produced clips. No other tool output is turned into a block; it
// reaches the response only as text, evidence and citations.
func AssembleAnalytics(results []ToolResult) []AnalyticsBlock {
	var blocks []AnalyticsBlock

	var clips []ClipRef
	seenClips := make(map[string]bool)
	for _, r := range results {
		for _, c := range r.Clips {
			if !seenClips[c.ClipID] {
				seenClips[c.ClipID] = true
				clips = append(clips, c)
			}
		}
	}
	if len(clips) > 0 {
		blocks = append(blocks, AnalyticsBlock{Type: "clips", Data: clips})
	}

	return blocks
}
