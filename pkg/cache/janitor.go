package cache

import "time"

// janitor periodically sweeps expired entries so that memory stays bounded
// even when stale keys are never read again. Lazy expiration alone can leave
// dead entries in memory indefinitely.
func (c *Cache[K, V]) janitor() {
	defer close(c.done)

	ticker := time.NewTicker(c.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Close stops the janitor goroutine and waits for it to finish.
// The cache itself remains usable after Close; only background cleanup stops.
// Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
		<-c.done
	}
	return nil
}
