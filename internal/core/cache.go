package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// ClientCache holds the in-memory client list that listing, filtering, and
// the dashboard read from. It is refreshed-and-replaced wholesale after
// writes, never patched incrementally.
type ClientCache struct {
	directory ClientDirectory

	mu      sync.RWMutex
	clients []models.Client
	loaded  bool
}

// NewClientCache creates a ClientCache over the given directory. The cache
// starts empty; the first Clients call triggers a refresh.
func NewClientCache(directory ClientDirectory) *ClientCache {
	return &ClientCache{directory: directory}
}

// Refresh replaces the cached list with a fresh read from the directory.
func (c *ClientCache) Refresh(ctx context.Context) error {
	clients, err := c.directory.GetClients(ctx)
	if err != nil {
		return fmt.Errorf("refreshing client cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients = clients
	c.loaded = true
	return nil
}

// Clients returns the cached client list, refreshing it on first use.
// The returned slice is a copy; callers may filter it freely.
func (c *ClientCache) Clients(ctx context.Context) ([]models.Client, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Client, len(c.clients))
	copy(out, c.clients)
	return out, nil
}
