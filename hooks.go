package bibmerge

import (
	"sync"

	"github.com/agentstation/bibmerge/pkg/merge"
)

// Hook function types for merge events. Hooks run on the goroutine folding
// the parsed sets, in fold order.
type (
	// RecordKeptHook is called when a record takes the kept slot for its key
	RecordKeptHook func(entry merge.Entry)

	// DuplicateHook is called when a record is moved to the duplicates set
	DuplicateHook func(entry merge.Entry)

	// FileSkippedHook is called when an invalid file is left out of a run
	FileSkippedHook func(file SkippedFile)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnRecordKept registers a callback for kept records
	OnRecordKept(RecordKeptHook)

	// OnDuplicate registers a callback for duplicate records
	OnDuplicate(DuplicateHook)

	// OnFileSkipped registers a callback for skipped files
	OnFileSkipped(FileSkippedHook)
}

// hooks manages event callbacks for a client.
type hooks struct {
	mu            sync.RWMutex
	onRecordKept  []RecordKeptHook
	onDuplicate   []DuplicateHook
	onFileSkipped []FileSkippedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordKept registers a callback for kept records.
func (c *client) OnRecordKept(fn RecordKeptHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRecordKept = append(c.hooks.onRecordKept, fn)
}

// OnDuplicate registers a callback for duplicate records.
func (c *client) OnDuplicate(fn DuplicateHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onDuplicate = append(c.hooks.onDuplicate, fn)
}

// OnFileSkipped registers a callback for skipped files.
func (c *client) OnFileSkipped(fn FileSkippedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFileSkipped = append(c.hooks.onFileSkipped, fn)
}

// triggerPlacements fires the kept or duplicate hooks for each placement.
func (h *hooks) triggerPlacements(placements []merge.Placement) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onRecordKept) == 0 && len(h.onDuplicate) == 0 {
		return
	}
	for _, p := range placements {
		if p.Duplicate {
			for _, fn := range h.onDuplicate {
				fn(p.Entry)
			}
			continue
		}
		for _, fn := range h.onRecordKept {
			fn(p.Entry)
		}
	}
}

// triggerSkipped fires the skipped-file hooks.
func (h *hooks) triggerSkipped(file SkippedFile) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onFileSkipped {
		fn(file)
	}
}
