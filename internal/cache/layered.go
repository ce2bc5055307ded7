package cache

import "time"

// LayeredCache checks memory first, then disk, promoting disk hits.
type LayeredCache struct {
	memory VectorCache
	disk   VectorCache
}

// NewLayeredCache creates a memory+disk cache. An empty diskDir disables
// the disk layer.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	c := &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
	}
	if diskDir != "" {
		c.disk = NewDiskCache(diskDir, diskTTL)
	}
	return c
}

// Get retrieves a vector, promoting disk hits into memory.
func (c *LayeredCache) Get(key string) ([]float32, bool) {
	if vec, found := c.memory.Get(key); found {
		return vec, true
	}

	if c.disk != nil {
		if vec, found := c.disk.Get(key); found {
			_ = c.memory.Set(key, vec, 0)
			return vec, true
		}
	}

	return nil, false
}

// Set stores a vector in both layers.
func (c *LayeredCache) Set(key string, vector []float32, ttl time.Duration) error {
	if err := c.memory.Set(key, vector, ttl); err != nil {
		return err
	}
	if c.disk != nil {
		return c.disk.Set(key, vector, ttl)
	}
	return nil
}

// Delete removes a vector from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	if c.disk != nil {
		_ = c.disk.Delete(key)
	}
	return nil
}

// Clear removes all vectors from both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if c.disk != nil {
		_ = c.disk.Clear()
	}
	return nil
}
