package tui

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nikbrunner/td/internal/storage"
)

// ChangeTracker collects store change notifications and tells the app
// when its lists are stale.
type ChangeTracker struct {
	mu     sync.Mutex
	dirty  bool
	logger *log.Logger
}

// NewChangeTracker returns a tracker. A nil logger disables logging.
func NewChangeTracker(logger *log.Logger) *ChangeTracker {
	return &ChangeTracker{logger: logger}
}

// Observe records a change. It has the storage.ChangeFunc signature.
func (c *ChangeTracker) Observe(change storage.Change) {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("store changed", "entity", change.Entity, "op", change.Op, "id", change.ID)
	}
}

// TakeDirty reports whether a change was observed since the last call
// and clears the flag.
func (c *ChangeTracker) TakeDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	dirty := c.dirty
	c.dirty = false
	return dirty
}
