// Package runtime owns the module loading lifecycle for one process: the
// registry, the loaded-module map, and the live configuration store all hang
// off an explicit Runtime value instead of package-level state, so boot and
// shutdown are deterministic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/armatek/armature/internal/ctxlog"
	"github.com/armatek/armature/internal/discovery"
	"github.com/armatek/armature/internal/eventbus"
	"github.com/armatek/armature/internal/kvstore"
	"github.com/armatek/armature/internal/liveconfig"
	"github.com/armatek/armature/internal/plugin"
	"github.com/armatek/armature/internal/registry"
	"github.com/armatek/armature/internal/resolver"
)

// Options configures a Runtime.
type Options struct {
	Logger          *slog.Logger
	Host            plugin.Host
	Storage         kvstore.Store
	Table           *plugin.Table
	PlatformVersion string
	APILevel        int

	// InitTimeout bounds each module's initialization when positive. The
	// reference behavior has no timeout: a hung module blocks everything
	// after it.
	InitTimeout time.Duration

	// Bus receives module lifecycle events when non-nil.
	Bus *eventbus.Bus

	// Configs is closed during Shutdown when non-nil; the runtime does not
	// read it itself.
	Configs *liveconfig.Store
}

// Runtime is the module loading and dependency-resolution engine. It
// performs exactly one boot sequence per process lifetime.
type Runtime struct {
	opts     Options
	registry *registry.Registry

	loaded      map[string]*registry.Record
	loadedOrder []string
	booted      bool
}

// New creates a runtime with an empty registry.
func New(opts Options) *Runtime {
	return &Runtime{
		opts:     opts,
		registry: registry.New(opts.Table, opts.PlatformVersion, opts.APILevel),
		loaded:   make(map[string]*registry.Record),
	}
}

// Registry exposes the underlying registry, primarily for tests.
func (rt *Runtime) Registry() *registry.Registry {
	return rt.registry
}

// Boot runs the single discovery → load → resolve → initialize sequence over
// the module tree rooted at modulesRoot. Per-module failures are logged and
// isolated; Boot itself only fails when called twice.
func (rt *Runtime) Boot(ctx context.Context, modulesRoot string) error {
	if rt.booted {
		return fmt.Errorf("runtime already booted; boot runs once per process")
	}
	rt.booted = true

	logger := ctxlog.FromContext(ctx)
	logger.Info("Module boot sequence starting.", "modules_root", modulesRoot)

	candidates := discovery.Discover(ctx, modulesRoot)
	for _, candidate := range candidates {
		rt.registry.LoadModule(ctx, candidate.ID, candidate.Path)
	}
	logger.Info("Module registration finished.",
		"candidates", len(candidates), "registered", rt.registry.Len())

	order := resolver.Resolve(ctx, rt.registry)
	rt.InitializeAll(ctx, order)

	logger.Info("Module boot sequence finished.",
		"loaded", len(rt.loadedOrder), "failed", rt.registry.Len()-len(rt.loadedOrder))
	return nil
}

// LoadedModules returns the administrative view of every loaded module, in
// load order.
func (rt *Runtime) LoadedModules() []registry.Info {
	infos := make([]registry.Info, 0, len(rt.loadedOrder))
	for _, id := range rt.loadedOrder {
		infos = append(infos, rt.loaded[id].Info())
	}
	return infos
}

// LoadedCount reports how many modules completed initialization.
func (rt *Runtime) LoadedCount() int {
	return len(rt.loadedOrder)
}

// Loaded returns the record for a loaded module id.
func (rt *Runtime) Loaded(id string) (*registry.Record, bool) {
	rec, ok := rt.loaded[id]
	return rec, ok
}

// Shutdown releases the resources the runtime owns: the config store's
// watchers and the storage backend.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var firstErr error
	if rt.opts.Configs != nil {
		if err := rt.opts.Configs.Close(); err != nil {
			logger.Error("Failed to close config store.", "error", err)
			firstErr = err
		}
	}
	if rt.opts.Storage != nil {
		if err := rt.opts.Storage.Close(); err != nil {
			logger.Error("Failed to close storage.", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
