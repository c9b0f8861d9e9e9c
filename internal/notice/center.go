// Package notice implements the transient user notification surface:
// severity-tagged messages that auto-expire after a few seconds.
package notice

import (
	"log"
	"sync"
	"time"
)

// Level tags a notice's severity.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// TTL is how long a notice stays active before auto-dismissing.
const TTL = 3 * time.Second

// Notice is one transient message.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Center collects notices. Publishing is fire-and-forget; readers poll
// Active for the unexpired ones.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Publish records a notice. The return value is never consumed by
// callers; failures to display are not a concern of publishers.
func (c *Center) Publish(level Level, message string) {
	log.Printf("[Notice] %s: %s", level, message)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: message, At: c.now()})
}

// Active returns the notices published within the last TTL, oldest
// first, and drops the expired ones.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-TTL)
	kept := c.notices[:0]
	for _, n := range c.notices {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	c.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}
