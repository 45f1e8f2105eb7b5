// Package cache memoizes solve results per season snapshot.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
)

// ResultCache stores solver results by season fingerprint. A miss is
// reported as (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) (*solver.Result, bool, error)
	Set(ctx context.Context, key string, res *solver.Result) error
}

// Fingerprint identifies a season snapshot by content. Any change to
// contestants or evidence yields a new key.
func Fingerprint(season *model.Season) (string, error) {
	data, err := json.Marshal(season)
	if err != nil {
		return "", fmt.Errorf("failed to encode season: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// MemoryCache keeps up to Capacity results in process. When full it starts
// over empty.
type MemoryCache struct {
	Capacity int

	mu      sync.Mutex
	entries map[string]*solver.Result
}

func NewMemoryCache(capacity int) *MemoryCache {
	return &MemoryCache{Capacity: capacity, entries: make(map[string]*solver.Result)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*solver.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, res *solver.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Capacity > 0 && len(c.entries) >= c.Capacity {
		c.entries = make(map[string]*solver.Result)
	}
	c.entries[key] = res
	return nil
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*solver.Result, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, *solver.Result) error { return nil }
