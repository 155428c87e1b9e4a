// Package resolver computes the order in which registered modules are
// initialized.
//
// The order guarantees that every registered required dependency of a module
// appears before the module itself. The resolver is deliberately fault
// tolerant: cycles and unmet dependencies are reported and survived so one
// bad module never blocks the rest of the batch.
package resolver

import (
	"context"

	"github.com/armatek/armature/internal/ctxlog"
	"github.com/armatek/armature/internal/registry"
)

// visit states for the depth-first traversal.
type state int

const (
	unvisited state = iota
	visiting
	visited
)

// Resolve returns all registered module ids in a dependency-respecting
// order. Modules with no dependency relationship keep their registry
// insertion order, so the result is stable for a fixed module tree.
//
// A dependency cycle is logged with a dedicated diagnostic and broken by
// treating the revisited module as resolved at its current position; the
// order still contains every module exactly once. A dependency name absent
// from the registry is logged (warning when optional, error when required)
// and skipped; the dependent module still resolves.
func Resolve(ctx context.Context, reg *registry.Registry) []string {
	logger := ctxlog.FromContext(ctx)

	states := make(map[string]state, reg.Len())
	order := make([]string, 0, reg.Len())

	var visit func(id string, rec *registry.Record)
	visit = func(id string, rec *registry.Record) {
		switch states[id] {
		case visited:
			return
		case visiting:
			logger.Error("Dependency cycle detected; load order within the cycle is arbitrary.",
				"module", id)
			return
		}
		states[id] = visiting

		for _, dep := range rec.Manifest.Dependencies {
			depRec, present := reg.Get(dep.Name)
			if !present {
				if dep.Optional {
					logger.Warn("Optional dependency is not registered, skipping.",
						"module", id, "dependency", dep.Name)
				} else {
					logger.Error("Required dependency is not registered; module loads anyway.",
						"module", id, "dependency", dep.Name)
				}
				continue
			}
			visit(dep.Name, depRec)
		}

		states[id] = visited
		order = append(order, id)
	}

	for _, id := range reg.IDs() {
		rec, _ := reg.Get(id)
		visit(id, rec)
	}

	logger.Debug("Dependency resolution finished.", "modules", len(order))
	return order
}
