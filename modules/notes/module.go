// Package notes is a built-in module exercising the storage handle: a
// minimal note API persisted through the host's key/value store.
package notes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/armatek/armature/internal/manifest"
	"github.com/armatek/armature/internal/plugin"
)

// Entrypoint is the factory name manifests reference.
const Entrypoint = "notes"

const (
	routePrefix = "/api/notes/"
	keyPrefix   = "notes:"
	maxBodySize = 64 << 10
)

// Module implements plugin.Module.
type Module struct {
	store plugin.Storage
	ttl   time.Duration
}

// Init reads the module's manifest config and registers the note routes.
func (m *Module) Init(_ context.Context, host plugin.Host, store plugin.Storage, mf *manifest.Manifest) error {
	if store == nil {
		return fmt.Errorf("notes module requires a storage handle")
	}
	m.store = store

	// ttl_minutes in the manifest config bounds note lifetime; zero keeps
	// notes forever.
	if v, ok := mf.Config["ttl_minutes"]; ok {
		minutes, ok := v.(float64)
		if !ok || minutes < 0 {
			return fmt.Errorf("ttl_minutes must be a non-negative number, got %v", v)
		}
		m.ttl = time.Duration(minutes * float64(time.Minute))
	}

	host.Handle(routePrefix, http.HandlerFunc(m.handle))
	return nil
}

func (m *Module) handle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, routePrefix)
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "note name required", http.StatusBadRequest)
		return
	}
	key := keyPrefix + name

	switch r.Method {
	case http.MethodGet:
		value, found, err := m.store.Get(r.Context(), key)
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(value)

	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			http.Error(w, "could not read body", http.StatusBadRequest)
			return
		}
		if err := m.store.Set(r.Context(), key, body, m.ttl); err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := m.store.Delete(r.Context(), key); err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Register adds this module's factory to the table.
func Register(t *plugin.Table) {
	t.Register(Entrypoint, func() plugin.Module { return &Module{} })
}
