package runtime

import (
	"context"
	"fmt"

	"github.com/armatek/armature/internal/ctxlog"
	"github.com/armatek/armature/internal/eventbus"
	"github.com/armatek/armature/internal/registry"
)

// InitializeAll invokes each module's entry point strictly in the given
// order and returns the map of modules that completed. A module's Init must
// finish, including any asynchronous setup it performs, before the next
// module runs, so later modules may rely on earlier ones being fully ready.
//
// One module's failure (error, panic, or timeout when configured) marks that
// module Failed and never aborts or skips the modules after it. There are no
// retries.
func (rt *Runtime) InitializeAll(ctx context.Context, order []string) map[string]*registry.Record {
	logger := ctxlog.FromContext(ctx)

	for _, id := range order {
		rec, ok := rt.registry.Get(id)
		if !ok {
			continue
		}

		rec.Status = registry.StatusInitializing
		rt.publishLifecycle(rec)

		if err := rt.initOne(ctx, rec); err != nil {
			logger.Error("Module initialization failed; continuing with remaining modules.",
				"module", id, "error", err)
			rec.Status = registry.StatusFailed
			rt.publishLifecycle(rec)
			continue
		}

		rec.Status = registry.StatusLoaded
		rt.loaded[id] = rec
		rt.loadedOrder = append(rt.loadedOrder, id)
		rt.publishLifecycle(rec)
		logger.Info("Module loaded.", "module", id,
			"name", rec.Manifest.Name, "version", rec.Manifest.Version)
	}

	return rt.loaded
}

// initOne runs a single entry point, containing panics and applying the
// per-module timeout when one is configured.
func (rt *Runtime) initOne(ctx context.Context, rec *registry.Record) error {
	if rt.opts.InitTimeout <= 0 {
		return rt.safeInit(ctx, rec)
	}

	initCtx, cancel := context.WithTimeout(ctx, rt.opts.InitTimeout)
	defer cancel()

	// Run Init on its own goroutine so a hung module can be abandoned. The
	// goroutine leaks until the module returns; the alternative is blocking
	// the rest of the boot sequence forever.
	done := make(chan error, 1)
	go func() {
		done <- rt.safeInit(initCtx, rec)
	}()

	select {
	case err := <-done:
		return err
	case <-initCtx.Done():
		return fmt.Errorf("initialization timed out after %s", rt.opts.InitTimeout)
	}
}

// safeInit calls the entry point and converts a panic into an error so a
// misbehaving module cannot take down the host.
func (rt *Runtime) safeInit(ctx context.Context, rec *registry.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module panicked during initialization: %v", r)
		}
	}()
	return rec.Entry.Init(ctx, rt.opts.Host, rt.opts.Storage, rec.Manifest)
}

func (rt *Runtime) publishLifecycle(rec *registry.Record) {
	if rt.opts.Bus == nil {
		return
	}
	rt.opts.Bus.Publish(eventbus.TopicModuleLifecycle, map[string]any{
		"module": rec.ID,
		"status": string(rec.Status),
	})
}
