package orchestrator

import (
	"context"
	"sync"
	"time"
)

// defaultFanOutDeadline is the default tool join deadline, per spec.md
// §5 ("global deadline (default 30 s...)").
const defaultFanOutDeadline = 30 * time.Second

// Tool executes one named analytics lookup and returns a ToolResult.
// Implementations must be safe for concurrent use.
type Tool interface {
	Name() string
	Run(ctx context.Context) ToolResult
}

// FanOut dispatches tools concurrently, joining at a barrier bound by
// deadline (defaultFanOutDeadline when deadline<=0). Per-tool failures
// (panics or a context-deadline cutoff) are captured as a warning on
// that tool's ToolResult rather than aborting the others, per spec.md
// §4.6 step 3. Grounded on services/request_deduplication.go's
// sync.WaitGroup/channel pattern for joining concurrent work.
func FanOut(ctx context.Context, tools []Tool, deadline time.Duration) []ToolResult {
	return fanOutWithCallback(ctx, tools, deadline, nil)
}

// fanOutWithCallback is FanOut's shared core; onResult, if non-nil, is
// invoked the moment each tool result arrives (in completion order),
// letting the streaming variant emit a tool_result event without
// duplicating the join logic.
func fanOutWithCallback(ctx context.Context, tools []Tool, deadline time.Duration, onResult func(ToolResult)) []ToolResult {
	if deadline <= 0 {
		deadline = defaultFanOutDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	type indexed struct {
		index  int
		result ToolResult
	}
	// Buffered so a tool that finishes after the deadline can still send
	// without blocking (and leaking its goroutine) once nobody is
	// listening anymore.
	out := make(chan indexed, len(tools))

	var wg sync.WaitGroup
	wg.Add(len(tools))
	for i, tool := range tools {
		go func(i int, tool Tool) {
			defer wg.Done()
			out <- indexed{index: i, result: runToolSafely(ctx, tool)}
		}(i, tool)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]ToolResult, len(tools))
	received := make([]bool, len(tools))

collect:
	for {
		select {
		case item, ok := <-out:
			if !ok {
				break collect
			}
			results[item.index] = item.result
			received[item.index] = true
			if onResult != nil {
				onResult(item.result)
			}
		case <-ctx.Done():
			break collect
		}
	}

	for i, tool := range tools {
		if !received[i] {
			results[i] = ToolResult{
				Tool:    tool.Name(),
				Success: false,
				Warning: "tool did not complete before the fan-out deadline",
			}
		}
	}

	return results
}

// runToolSafely runs a single tool, converting a panic into a failed
// ToolResult instead of crashing the whole fan-out.
func runToolSafely(ctx context.Context, tool Tool) (result ToolResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = ToolResult{
				Tool:    tool.Name(),
				Success: false,
				Warning: "tool panicked during execution",
			}
		}
		result.Duration = time.Since(start)
		if result.Tool == "" {
			result.Tool = tool.Name()
		}
	}()
	return tool.Run(ctx)
}
