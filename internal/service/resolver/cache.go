package resolver

import (
	"context"
	"sync"

	"poachwatch/internal/service/ai"
)

// CachingResolver keeps the first successfully resolved handle and hands it
// out to every later run. Failures are not cached.
type CachingResolver struct {
	inner  *Resolver
	mu     sync.Mutex
	handle *ai.Handle
}

func NewCachingResolver(inner *Resolver) *CachingResolver {
	return &CachingResolver{inner: inner}
}

func (c *CachingResolver) Resolve(ctx context.Context) (*ai.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		return c.handle, nil
	}

	handle, err := c.inner.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	handle.Shared = true
	c.handle = handle
	return handle, nil
}

// Close releases the cached detector.
func (c *CachingResolver) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return nil
	}
	err := c.handle.Detector.Close()
	c.handle = nil
	return err
}
