package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatek/armature/internal/manifest"
)

type muxHost struct{ mux *http.ServeMux }

func (h muxHost) Handle(pattern string, handler http.Handler) {
	h.mux.Handle(pattern, handler)
}

func TestStatusEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	m := &Module{}
	require.NoError(t, m.Init(context.Background(), muxHost{mux}, nil, &manifest.Manifest{
		Name:    "Status",
		Version: "1.2.3",
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Status        string  `json:"status"`
		Module        string  `json:"module"`
		Version       string  `json:"version"`
		UptimeSeconds float64 `json:"uptime_seconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Status", resp.Module)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
}
