package state

import (
	"sync"

	"github.com/google/uuid"
)

// Counter is a monotonic integer used for object orders and local id suffixes.
type Counter struct {
	value int64
	mu    sync.Mutex
}

// Next increments the counter and returns the new value.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value
}

// Current returns the value without incrementing.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// AdvanceTo raises the counter to v. It never moves backwards.
func (c *Counter) AdvanceTo(v int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v > c.value {
		c.value = v
		return true
	}
	return false
}

// NewReplicaID returns a random identifier for a whiteboard instance.
func NewReplicaID() string {
	return uuid.NewString()
}
