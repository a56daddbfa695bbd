package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEvidence_PreservesOrderAcrossTools(t *testing.T) {
	results := []ToolResult{
		{Tool: "a", Evidence: []string{"e1", "e2"}},
		{Tool: "b", Evidence: []string{"e3"}},
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, MergeEvidence(results))
}

func TestMergeCitations_DedupesByValue(t *testing.T) {
	results := []ToolResult{
		{Tool: "a", Citations: []string{"nhl-api", "pbp"}},
		{Tool: "b", Citations: []string{"pbp", "standings"}},
	}
	assert.Equal(t, []string{"nhl-api", "pbp", "standings"}, MergeCitations(results))
}

func TestAssembleAnalytics_DedupesClipsAcrossToolsIntoOneBlock(t *testing.T) {
	results := []ToolResult{
		{Tool: "a", Clips: []ClipRef{{ClipID: "c1", Title: "Goal"}}},
		{Tool: "b", Clips: []ClipRef{{ClipID: "c1", Title: "Goal"}, {ClipID: "c2", Title: "Save"}}},
	}
	blocks := AssembleAnalytics(results)
	if assert.Len(t, blocks, 1) {
		assert.Equal(t, "clips", blocks[0].Type)
		clips, ok := blocks[0].Data.([]ClipRef)
		assert.True(t, ok)
		assert.Len(t, clips, 2)
	}
}

func TestAssembleAnalytics_NoClipsProducesNoBlock(t *testing.T) {
	results := []ToolResult{{Tool: "a", Text: "no clips here"}}
	assert.Empty(t, AssembleAnalytics(results))
}
