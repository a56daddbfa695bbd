package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTool struct {
	name   string
	delay  time.Duration
	panics bool
	result ToolResult
}

func (f fakeTool) Name() string { return f.name }

func (f fakeTool) Run(ctx context.Context) ToolResult {
	if f.panics {
		panic("boom")
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}
	return f.result
}

func TestFanOut_RunsToolsConcurrentlyAndPreservesOrder(t *testing.T) {
	tools := []Tool{
		fakeTool{name: "slow", delay: 20 * time.Millisecond, result: ToolResult{Tool: "slow", Success: true}},
		fakeTool{name: "fast", delay: time.Millisecond, result: ToolResult{Tool: "fast", Success: true}},
	}
	results := FanOut(context.Background(), tools, time.Second)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "slow", results[0].Tool)
		assert.Equal(t, "fast", results[1].Tool)
		assert.True(t, results[0].Success)
		assert.True(t, results[1].Success)
	}
}

func TestFanOut_PanicIsCapturedAsFailedResult(t *testing.T) {
	tools := []Tool{fakeTool{name: "boomer", panics: true}}
	results := FanOut(context.Background(), tools, time.Second)
	if assert.Len(t, results, 1) {
		assert.False(t, results[0].Success)
		assert.Contains(t, results[0].Warning, "panicked")
	}
}

func TestFanOut_SlowToolPastDeadlineGetsTimeoutWarning(t *testing.T) {
	tools := []Tool{
		fakeTool{name: "laggard", delay: 200 * time.Millisecond, result: ToolResult{Tool: "laggard", Success: true}},
	}
	results := FanOut(context.Background(), tools, 10*time.Millisecond)
	if assert.Len(t, results, 1) {
		assert.False(t, results[0].Success)
		assert.Contains(t, results[0].Warning, "deadline")
	}
}

func TestFanOut_ZeroDeadlineUsesDefault(t *testing.T) {
	tools := []Tool{fakeTool{name: "quick", delay: time.Millisecond, result: ToolResult{Tool: "quick", Success: true}}}
	results := FanOut(context.Background(), tools, 0)
	if assert.Len(t, results, 1) {
		assert.True(t, results[0].Success)
	}
}
