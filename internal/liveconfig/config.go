// Package liveconfig keeps one long-lived, shared view of each configuration
// file and refreshes it in place when the file changes on disk.
//
// Every consumer that loads a path receives the same *Config handle for the
// lifetime of the process. Reloads merge the newly parsed document into the
// handle's tree under a write lock, so holders observe updates without
// re-fetching while readers never see a partially merged tree. A reload that
// fails to parse is logged and leaves the previous state untouched; only the
// very first load of a path may fail the caller.
package liveconfig

import (
	"strings"
	"sync"
)

// Config is the live handle for one configuration file. Its identity is
// stable for the process lifetime; only the contents of its tree change.
type Config struct {
	path string

	mu   sync.RWMutex
	tree map[string]any

	subMu sync.Mutex
	subs  []chan struct{}
}

func newConfig(path string, tree map[string]any) *Config {
	if tree == nil {
		tree = make(map[string]any)
	}
	return &Config{path: path, tree: tree}
}

// Path returns the resolved absolute path this handle was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Get looks up a dotted key ("server.listen") and returns the value found
// along with whether the full path existed.
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current any = c.tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString returns the string at key, or fallback when the key is absent or
// holds a non-string.
func (c *Config) GetString(key, fallback string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// GetInt returns the integer at key, accepting the numeric representations
// the supported document formats produce.
func (c *Config) GetInt(key string, fallback int) int {
	if v, ok := c.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return fallback
}

// GetBool returns the boolean at key, or fallback.
func (c *Config) GetBool(key string, fallback bool) bool {
	if v, ok := c.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// Snapshot returns a deep copy of the current tree. Use it when a consumer
// needs a consistent multi-key view rather than individual reads.
func (c *Config) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyTree(c.tree)
}

// Subscribe returns a channel that receives one signal after each successful
// reload merge. The channel has a buffer of one; signals coalesce when the
// subscriber lags.
func (c *Config) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

// replace merges the freshly parsed tree into the live one and notifies
// subscribers. Called by the store's reload path only.
func (c *Config) replace(next map[string]any) {
	c.mu.Lock()
	mergeTree(c.tree, next)
	c.mu.Unlock()

	c.subMu.Lock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	c.subMu.Unlock()
}
