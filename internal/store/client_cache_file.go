package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// InMemoryDSN selects a cache that is never written to disk.
const InMemoryDSN = ":memory:"

// fileCache keeps every entry in memory and rewrites a JSON file after each
// change. Used for ".json" cache paths and, without a file, in tests.
type fileCache struct {
	path     string
	inMemory bool

	mu      sync.RWMutex
	entries map[string]string
}

// NewFileCache loads path when it exists. An empty path or [InMemoryDSN]
// gives a purely in-memory cache.
func NewFileCache(path string) (LocalCache, error) {
	if path == "" {
		path = InMemoryDSN
	}

	c := &fileCache{
		path:     path,
		inMemory: path == InMemoryDSN,
		entries:  make(map[string]string),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() LocalCache {
	return &fileCache{path: InMemoryDSN, inMemory: true, entries: make(map[string]string)}
}

func (c *fileCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	if !ok {
		return "", ErrCacheKeyNotFound
	}
	return value, nil
}

func (c *fileCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
	return c.persist()
}

func (c *fileCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return nil
	}
	delete(c.entries, key)
	return c.persist()
}

func (c *fileCache) Keys(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func (c *fileCache) RemoveMany(_ context.Context, keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return c.persist()
}

func (c *fileCache) load() error {
	if c.inMemory {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read local cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err = json.Unmarshal(data, &c.entries); err != nil {
		return fmt.Errorf("decode local cache file: %w", err)
	}
	if c.entries == nil {
		c.entries = make(map[string]string)
	}

	return nil
}

func (c *fileCache) persist() error {
	if c.inMemory {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local cache dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local cache: %w", err)
	}

	if err = os.WriteFile(c.path, payload, 0o600); err != nil {
		return fmt.Errorf("write local cache file: %w", err)
	}

	return nil
}
