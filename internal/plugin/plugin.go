// Package plugin defines the contract between the host and compiled-in
// modules.
//
// Instead of introspecting arbitrary loaded files for exported symbols, every
// module implements the Module interface and registers a Factory in a Table
// under its entrypoint name. Manifest files on disk declare a module's
// identity and dependencies; the Table supplies the code that backs them.
package plugin

import (
	"context"
	"net/http"
	"time"

	"github.com/armatek/armature/internal/manifest"
)

// Host is the route-registration surface the application exposes to modules.
// It is opaque to the loading core, which only passes it through.
type Host interface {
	// Handle registers an HTTP handler under the given ServeMux pattern.
	Handle(pattern string, handler http.Handler)
}

// Storage is the key/value handle passed through to modules. A ttl of zero
// means the entry never expires.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Module is a loadable unit of host functionality. Init is called exactly
// once, in dependency order; it must not return until all of its setup,
// including any asynchronous work it starts, has completed, because later
// modules are entitled to rely on it. Returning an error (or panicking)
// marks the module failed without affecting the rest of the batch.
type Module interface {
	Init(ctx context.Context, host Host, store Storage, m *manifest.Manifest) error
}

// Factory produces a fresh Module instance for one manifest.
type Factory func() Module

// Table maps entrypoint names to module factories. It is populated once at
// startup and read-only afterwards.
type Table struct {
	factories map[string]Factory
}

// NewTable creates an empty factory table.
func NewTable() *Table {
	return &Table{factories: make(map[string]Factory)}
}

// Register adds a factory under the given entrypoint name. Registering the
// same name twice is a programmer error and panics.
func (t *Table) Register(name string, f Factory) {
	if _, exists := t.factories[name]; exists {
		panic("plugin: factory already registered for entrypoint '" + name + "'")
	}
	t.factories[name] = f
}

// Lookup returns the factory registered under name, if any.
func (t *Table) Lookup(name string) (Factory, bool) {
	f, ok := t.factories[name]
	return f, ok
}

// Registrar is implemented by built-in module packages so the application
// can assemble its factory table declaratively.
type Registrar interface {
	Register(t *Table)
}
