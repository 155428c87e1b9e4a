package registry

import (
	"context"

	"github.com/armatek/armature/internal/ctxlog"
	"github.com/armatek/armature/internal/manifest"
)

// LoadModule reads the manifest file at path and, if it declares a valid
// module backed by a registered factory, inserts a Record under id. The file
// is re-read on every call so a load always observes the current on-disk
// content.
//
// The return value reports whether a record was registered. All failure
// modes are isolated to this module: parse and duplicate errors are logged,
// a file without a `module` block or without a matching factory is silently
// skipped as non-module content, and validation failures emit their own
// diagnostics.
func (r *Registry) LoadModule(ctx context.Context, id, path string) bool {
	logger := ctxlog.FromContext(ctx)

	m, ok, err := manifest.Decode(path)
	if err != nil {
		logger.Error("Failed to load module manifest.", "module", id, "path", path, "error", err)
		return false
	}
	if !ok {
		logger.Debug("File has no module block, skipping.", "path", path)
		return false
	}

	entrypoint := m.Entrypoint
	if entrypoint == "" {
		entrypoint = id
	}
	factory, found := r.table.Lookup(entrypoint)
	if !found {
		// No entry point means this is not a loadable module. Not an error.
		logger.Debug("No factory registered for entrypoint, skipping.",
			"module", id, "entrypoint", entrypoint)
		return false
	}

	if !manifest.Validate(logger, m, id, r.platformVersion, r.apiLevel) {
		return false
	}

	if _, exists := r.records[id]; exists {
		logger.Error("Duplicate module id, keeping the first registration.", "module", id, "path", path)
		return false
	}

	r.records[id] = &Record{
		ID:       id,
		Path:     path,
		Manifest: m,
		Entry:    factory(),
		Status:   StatusRegistered,
	}
	r.order = append(r.order, id)
	logger.Debug("Module registered.", "module", id, "name", m.Name, "version", m.Version)
	return true
}
