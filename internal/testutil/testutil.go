// Package testutil provides shared helpers for exercising the module
// loading pipeline in tests: log capture, manifest tree scaffolding, and
// stub implementations of the plugin contract.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armatek/armature/internal/manifest"
	"github.com/armatek/armature/internal/plugin"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a debug-level text logger writing into a SafeBuffer so
// tests can assert on emitted diagnostics.
func NewLogger() (*slog.Logger, *SafeBuffer) {
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}

// WriteTree writes the given relative-path → content files under root,
// creating directories as needed. Tests use it to lay out module manifest
// trees and config documents.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// StubModule is a plugin.Module whose Init behavior tests control. The
// zero value succeeds and records the call.
type StubModule struct {
	InitFunc func(ctx context.Context, host plugin.Host, store plugin.Storage, m *manifest.Manifest) error

	mu       sync.Mutex
	initedID []string
}

// Init implements plugin.Module.
func (s *StubModule) Init(ctx context.Context, host plugin.Host, store plugin.Storage, m *manifest.Manifest) error {
	s.mu.Lock()
	s.initedID = append(s.initedID, m.Name)
	s.mu.Unlock()
	if s.InitFunc != nil {
		return s.InitFunc(ctx, host, store, m)
	}
	return nil
}

// InitCount reports how many times Init ran.
func (s *StubModule) InitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.initedID)
}

// RouteRecorder is a plugin.Host that remembers registered patterns.
type RouteRecorder struct {
	mu       sync.Mutex
	Patterns []string
}

// Handle implements plugin.Host.
func (r *RouteRecorder) Handle(pattern string, _ http.Handler) {
	r.mu.Lock()
	r.Patterns = append(r.Patterns, pattern)
	r.mu.Unlock()
}
