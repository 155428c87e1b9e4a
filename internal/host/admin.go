package host

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/armatek/armature/internal/registry"
)

// ModuleLister is the narrow runtime view the admin surface needs: what
// loaded, in what order, and how many.
type ModuleLister interface {
	LoadedModules() []registry.Info
	LoadedCount() int
}

// modulesResponse is the body of GET /admin/modules.
type modulesResponse struct {
	Modules []registry.Info `json:"modules"`
	Total   int             `json:"total"`
}

// ModulesHandler serves the loaded-module listing for administrative
// display.
func ModulesHandler(logger *slog.Logger, lister ModuleLister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := modulesResponse{
			Modules: lister.LoadedModules(),
			Total:   lister.LoadedCount(),
		}
		if resp.Modules == nil {
			resp.Modules = []registry.Info{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("Failed to encode modules response.", "error", err)
		}
	})
}
