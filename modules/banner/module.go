// Package banner is a built-in module exercising the live configuration
// handle: it serves a banner message read from the shared config on every
// request, so edits to the config file show up without a restart.
package banner

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/armatek/armature/internal/liveconfig"
	"github.com/armatek/armature/internal/manifest"
	"github.com/armatek/armature/internal/plugin"
)

// Entrypoint is the factory name manifests reference.
const Entrypoint = "banner"

// Module implements plugin.Module. The live config handle is injected at
// factory registration time; the manifest's config block supplies the
// fallback message.
type Module struct {
	config *liveconfig.Config
}

type bannerResponse struct {
	Message string `json:"message"`
}

// Init registers the banner endpoint.
func (m *Module) Init(_ context.Context, host plugin.Host, _ plugin.Storage, mf *manifest.Manifest) error {
	fallback := "welcome"
	if v, ok := mf.Config["default_message"].(string); ok {
		fallback = v
	}

	host.Handle("/api/banner", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		message := fallback
		if m.config != nil {
			message = m.config.GetString("banner.message", fallback)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bannerResponse{Message: message})
	}))
	return nil
}

// Register adds this module's factory to the table, capturing the live
// config handle the instances will read from.
func Register(t *plugin.Table, config *liveconfig.Config) {
	t.Register(Entrypoint, func() plugin.Module { return &Module{config: config} })
}
