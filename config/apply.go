package config

import (
	"strings"

	"github.com/segalloc/segalloc/diagnostics"
	"github.com/segalloc/segalloc/internal/heap"
)

// Apply wires resolved Options into the heap engine and the diagnostics
// facility. Process entry points call this once at start-up: cabi/ after
// Load, cmd/segalloc-bench after Default and Verify.
func (o Options) Apply() {
	switch strings.ToLower(o.Policy) {
	case "best-fit":
		heap.SetPolicy(heap.BestFit)
	case "worst-fit":
		heap.SetPolicy(heap.WorstFit)
	case "next-fit":
		heap.SetPolicy(heap.NextFit)
	default:
		heap.SetPolicy(heap.FirstFit)
	}

	switch strings.ToLower(o.Log) {
	case "info":
		diagnostics.SetLevel(diagnostics.LevelInfo)
	case "error":
		diagnostics.SetLevel(diagnostics.LevelError)
	case "off", "none":
		diagnostics.SetLevel(diagnostics.LevelError + 1)
	default:
		diagnostics.SetLevel(diagnostics.LevelWarning)
	}

	if o.PageSize != 0 {
		heap.SetPageSizeOverride(uintptr(o.PageSize))
	}

	heap.SetFatalHandler(func(err error) {
		diagnostics.Fatalf("heap: unrecoverable: %v", err)
	})
}
