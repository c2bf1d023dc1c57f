package services

import (
	"context"
	"sync"
)

// cancelSlot holds the cancel function of the single in-flight request of
// one kind. Installing a new holder cancels the previous one, and the
// generation number tells a completing request whether it is still the
// current holder.
type cancelSlot struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// install cancels the previous holder and returns a context derived from
// parent together with the new holder's generation.
func (c *cancelSlot) install(parent context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.gen++
	c.cancel = cancel
	return ctx, c.gen
}

// release frees the slot if gen is still the current holder. It reports
// whether gen was current; a false result means the request was superseded.
func (c *cancelSlot) release(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return true
}

// clear cancels the current holder, if any, and invalidates its generation.
func (c *cancelSlot) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
}
