package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/basketlens/backend/internal/domain"
)

const cleanupInterval = 10 * time.Minute

// cacheItem represents a single stored run with expiration
type cacheItem struct {
	Value      []byte
	Expiration time.Time
}

// MemoryRunStore is a thread-safe in-memory store of finished discovery runs with TTL support.
// Runs are held as JSON so callers never share the stored value.
type MemoryRunStore struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryRunStore creates a new in-memory run store
func NewMemoryRunStore() *MemoryRunStore {
	store := &MemoryRunStore{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	// Remove expired entries every 10 minutes
	go store.cleanupExpired(cleanupInterval)

	return store
}

// Get retrieves a run by ID
func (c *MemoryRunStore) Get(ctx context.Context, id string) (*domain.DiscoveryRun, error) {
	c.mutex.RLock()
	item, exists := c.data[id]
	c.mutex.RUnlock()

	if !exists || c.now().After(item.Expiration) {
		return nil, domain.ErrRunNotFound
	}

	var run domain.DiscoveryRun
	if err := json.Unmarshal(item.Value, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Save stores a run with TTL, replacing any run with the same ID
func (c *MemoryRunStore) Save(ctx context.Context, run *domain.DiscoveryRun, ttl time.Duration) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidRequest
	}

	jsonData, err := json.Marshal(run)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[run.ID] = cacheItem{
		Value:      jsonData,
		Expiration: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a run
func (c *MemoryRunStore) Delete(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, id)
	return nil
}

// cleanupExpired removes expired entries periodically until Close is called
func (c *MemoryRunStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryRunStore) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of stored runs, expired ones included until cleanup
func (c *MemoryRunStore) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine
func (c *MemoryRunStore) Close() {
	c.once.Do(func() { close(c.stop) })
}
