// Package registry stores the modules admitted for this boot sequence.
//
// A Record enters the registry only after its manifest file decoded cleanly,
// a factory was found for its entrypoint, and the manifest passed validation.
// Once inserted, records are never removed; only their lifecycle status
// advances. The registry remembers insertion order so that dependency
// resolution and administrative listings are reproducible for a fixed
// module tree.
package registry

import (
	"github.com/armatek/armature/internal/manifest"
	"github.com/armatek/armature/internal/plugin"
)

// Status tracks a record through its lifecycle. Loaded and Failed are
// terminal; there is no transition back.
type Status string

const (
	StatusRegistered   Status = "registered"
	StatusInitializing Status = "initializing"
	StatusLoaded       Status = "loaded"
	StatusFailed       Status = "failed"
)

// Record is one admitted module: its identity, manifest, and entry point.
type Record struct {
	ID       string
	Path     string
	Manifest *manifest.Manifest
	Entry    plugin.Module
	Status   Status
}

// Info is the administrative view of a module, exposed over the admin API.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	APILevel    int    `json:"api_level"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
}

// Info derives the administrative view from the record's manifest.
func (r *Record) Info() Info {
	return Info{
		ID:          r.ID,
		Name:        r.Manifest.Name,
		Version:     r.Manifest.Version,
		APILevel:    r.Manifest.APILevel,
		Description: r.Manifest.Description,
		Author:      r.Manifest.Author,
	}
}

// Registry holds records keyed by module id plus their insertion order.
type Registry struct {
	table           *plugin.Table
	platformVersion string
	apiLevel        int

	records map[string]*Record
	order   []string
}

// New creates an empty registry that validates manifests against the given
// host platform version and API level and resolves entrypoints through the
// given factory table.
func New(table *plugin.Table, platformVersion string, apiLevel int) *Registry {
	return &Registry{
		table:           table,
		platformVersion: platformVersion,
		apiLevel:        apiLevel,
		records:         make(map[string]*Record),
	}
}

// Get returns the record for id, if registered.
func (r *Registry) Get(id string) (*Record, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// IDs returns the registered module ids in insertion order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered modules.
func (r *Registry) Len() int {
	return len(r.order)
}
