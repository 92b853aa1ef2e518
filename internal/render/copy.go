package render

import (
	"sync"
	"time"
)

// CopyFeedbackDuration is how long a code panel shows "Copied!".
const CopyFeedbackDuration = 2 * time.Second

// CopyFeedback tracks the copied indicator of one code panel.
type CopyFeedback struct {
	mu    sync.Mutex
	until time.Time
}

// Mark records a copy at now.
func (c *CopyFeedback) Mark(now time.Time) {
	c.mu.Lock()
	c.until = now.Add(CopyFeedbackDuration)
	c.mu.Unlock()
}

// Showing reports whether the indicator is still visible at now.
func (c *CopyFeedback) Showing(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Before(c.until)
}

// Label is the copy button text at now.
func (c *CopyFeedback) Label(now time.Time) string {
	if c.Showing(now) {
		return "Copied!"
	}
	return "Copy"
}
