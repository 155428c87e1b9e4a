package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecode_FullManifest(t *testing.T) {
	path := writeManifest(t, `
module {
  name            = "Billing"
  version         = "2.1.0"
  api_level       = 2
  target_platform = ">= 1.0.0 < 2.0.0"
  description     = "Invoices and payments."
  author          = "core team"
  license         = "MIT"
  entrypoint      = "billing"
  tags            = ["core", "payments"]
  permissions     = ["kv.read", "kv.write"]

  dependency "core/auth" {}
  dependency "extra/reports" {
    optional = true
  }

  route {
    method = "GET"
    path   = "/api/invoices"
  }

  config {
    currency   = "EUR"
    retries    = 3
    strict     = true
    endpoints  = ["a", "b"]
    thresholds = {
      low  = 1.5
      high = 9
    }
  }
}
`)

	m, ok, err := Decode(path)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Billing", m.Name)
	assert.Equal(t, "2.1.0", m.Version)
	assert.Equal(t, 2, m.APILevel)
	assert.Equal(t, ">= 1.0.0 < 2.0.0", m.TargetPlatform)
	assert.Equal(t, "billing", m.Entrypoint)
	assert.Equal(t, []string{"core", "payments"}, m.Tags)

	require.Len(t, m.Dependencies, 2)
	assert.Equal(t, Dependency{Name: "core/auth", Optional: false}, m.Dependencies[0])
	assert.Equal(t, Dependency{Name: "extra/reports", Optional: true}, m.Dependencies[1])

	require.Len(t, m.Routes, 1)
	assert.Equal(t, Route{Method: "GET", Path: "/api/invoices"}, m.Routes[0])

	require.NotNil(t, m.Config)
	assert.Equal(t, "EUR", m.Config["currency"])
	assert.Equal(t, float64(3), m.Config["retries"])
	assert.Equal(t, true, m.Config["strict"])
	assert.Equal(t, []any{"a", "b"}, m.Config["endpoints"])
	assert.Equal(t, map[string]any{"low": 1.5, "high": float64(9)}, m.Config["thresholds"])
}

func TestDecode_MissingFieldsSurviveDecoding(t *testing.T) {
	// Required fields are enforced by Validate, not by the decoder, so a
	// sparse manifest still decodes.
	path := writeManifest(t, `
module {
  name = "Sparse"
}
`)
	m, ok, err := Decode(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sparse", m.Name)
	assert.Empty(t, m.Version)
	assert.Zero(t, m.APILevel)
	assert.Nil(t, m.Config)
}

func TestDecode_NonModuleFile(t *testing.T) {
	path := writeManifest(t, `
theme = "dark"
`)
	m, ok, err := Decode(path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestDecode_ParseError(t *testing.T) {
	path := writeManifest(t, `module { name = `)
	_, _, err := Decode(path)
	require.Error(t, err)
}

func TestDecode_MissingFile(t *testing.T) {
	_, _, err := Decode(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}
