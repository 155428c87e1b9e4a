// Package status is the built-in liveness module. It registers a small JSON
// endpoint reporting identity and uptime, and serves as the root of the
// built-in dependency chain.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/armatek/armature/internal/manifest"
	"github.com/armatek/armature/internal/plugin"
)

// Entrypoint is the factory name manifests reference.
const Entrypoint = "status"

// Module implements plugin.Module.
type Module struct {
	startedAt time.Time
}

type statusResponse struct {
	Status        string  `json:"status"`
	Module        string  `json:"module"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Init registers the status endpoint on the host.
func (m *Module) Init(_ context.Context, host plugin.Host, _ plugin.Storage, mf *manifest.Manifest) error {
	m.startedAt = time.Now()

	host.Handle("/api/status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Status:        "ok",
			Module:        mf.Name,
			Version:       mf.Version,
			UptimeSeconds: time.Since(m.startedAt).Seconds(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	return nil
}

// Register adds this module's factory to the table.
func Register(t *plugin.Table) {
	t.Register(Entrypoint, func() plugin.Module { return &Module{} })
}
