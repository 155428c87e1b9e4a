package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatek/armature/internal/ctxlog"
	"github.com/armatek/armature/internal/plugin"
	"github.com/armatek/armature/internal/testutil"
)

const (
	testPlatform = "1.4.2"
	testAPILevel = 2
)

func testTable(entrypoints ...string) *plugin.Table {
	table := plugin.NewTable()
	for _, name := range entrypoints {
		table.Register(name, func() plugin.Module { return &testutil.StubModule{} })
	}
	return table
}

func testContext(t *testing.T) (context.Context, *testutil.SafeBuffer) {
	t.Helper()
	logger, buf := testutil.NewLogger()
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func manifestHCL(entrypoint string) string {
	return `
module {
  name            = "Example"
  version         = "1.0.0"
  api_level       = 1
  target_platform = ">= 1.0.0"
  entrypoint      = "` + entrypoint + `"
}
`
}

func TestLoadModule_Registers(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"core/example.hcl": manifestHCL("example"),
	})

	reg := New(testTable("example"), testPlatform, testAPILevel)
	ok := reg.LoadModule(ctx, "core/example", filepath.Join(root, "core/example.hcl"))
	require.True(t, ok)

	rec, found := reg.Get("core/example")
	require.True(t, found)
	assert.Equal(t, StatusRegistered, rec.Status)
	assert.Equal(t, "Example", rec.Manifest.Name)
	assert.NotNil(t, rec.Entry)
	assert.Equal(t, []string{"core/example"}, reg.IDs())
}

func TestLoadModule_DefaultEntrypointIsID(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"plain.hcl": `
module {
  name            = "Plain"
  version         = "1.0.0"
  api_level       = 1
  target_platform = ">= 1.0.0"
}
`,
	})

	reg := New(testTable("plain"), testPlatform, testAPILevel)
	assert.True(t, reg.LoadModule(ctx, "plain", filepath.Join(root, "plain.hcl")))
}

func TestLoadModule_NoModuleBlockSilentlySkipped(t *testing.T) {
	ctx, buf := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"misc.hcl": `something = "else"`,
	})

	reg := New(testTable("misc"), testPlatform, testAPILevel)
	assert.False(t, reg.LoadModule(ctx, "misc", filepath.Join(root, "misc.hcl")))
	assert.Zero(t, reg.Len())
	assert.NotContains(t, buf.String(), "level=ERROR")
}

func TestLoadModule_NoFactorySilentlySkipped(t *testing.T) {
	ctx, buf := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"core/example.hcl": manifestHCL("unregistered"),
	})

	reg := New(testTable(), testPlatform, testAPILevel)
	assert.False(t, reg.LoadModule(ctx, "core/example", filepath.Join(root, "core/example.hcl")))
	assert.Zero(t, reg.Len())
	assert.NotContains(t, buf.String(), "level=ERROR")
}

func TestLoadModule_ParseErrorLogged(t *testing.T) {
	ctx, buf := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"broken.hcl": `module { name = `,
	})

	reg := New(testTable("broken"), testPlatform, testAPILevel)
	assert.False(t, reg.LoadModule(ctx, "broken", filepath.Join(root, "broken.hcl")))
	assert.Contains(t, buf.String(), "Failed to load module manifest")
}

func TestLoadModule_InvalidManifestRejected(t *testing.T) {
	ctx, buf := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"high.hcl": `
module {
  name            = "TooNew"
  version         = "1.0.0"
  api_level       = 99
  target_platform = ">= 1.0.0"
  entrypoint      = "high"
}
`,
	})

	reg := New(testTable("high"), testPlatform, testAPILevel)
	assert.False(t, reg.LoadModule(ctx, "high", filepath.Join(root, "high.hcl")))
	assert.Zero(t, reg.Len())
	assert.Contains(t, buf.String(), "newer host API level")
}

func TestLoadModule_DuplicateIDKeepsFirst(t *testing.T) {
	ctx, buf := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"a/example.hcl": manifestHCL("example"),
		"b/example.hcl": manifestHCL("example"),
	})

	reg := New(testTable("example"), testPlatform, testAPILevel)
	require.True(t, reg.LoadModule(ctx, "example", filepath.Join(root, "a/example.hcl")))
	assert.False(t, reg.LoadModule(ctx, "example", filepath.Join(root, "b/example.hcl")))

	rec, _ := reg.Get("example")
	assert.Equal(t, filepath.Join(root, "a/example.hcl"), rec.Path)
	assert.Contains(t, buf.String(), "Duplicate module id")
}

func TestLoadModule_RereadsSourceEveryCall(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	path := filepath.Join(root, "mod.hcl")

	testutil.WriteTree(t, root, map[string]string{"mod.hcl": manifestHCL("example")})
	reg := New(testTable("example"), testPlatform, testAPILevel)
	require.True(t, reg.LoadModule(ctx, "first", path))

	// Rewrite the file; a later load under a different id must observe the
	// new content because sources are never cached.
	testutil.WriteTree(t, root, map[string]string{"mod.hcl": `
module {
  name            = "Rewritten"
  version         = "2.0.0"
  api_level       = 1
  target_platform = ">= 1.0.0"
  entrypoint      = "example"
}
`})
	require.True(t, reg.LoadModule(ctx, "second", path))

	rec, _ := reg.Get("second")
	assert.Equal(t, "Rewritten", rec.Manifest.Name)
}

func TestRecordInfo(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"core/example.hcl": `
module {
  name            = "Example"
  version         = "1.0.0"
  api_level       = 1
  target_platform = ">= 1.0.0"
  entrypoint      = "example"
  description     = "demo"
  author          = "tests"
}
`,
	})

	reg := New(testTable("example"), testPlatform, testAPILevel)
	require.True(t, reg.LoadModule(ctx, "core/example", filepath.Join(root, "core/example.hcl")))

	rec, _ := reg.Get("core/example")
	info := rec.Info()
	assert.Equal(t, Info{
		ID:          "core/example",
		Name:        "Example",
		Version:     "1.0.0",
		APILevel:    1,
		Description: "demo",
		Author:      "tests",
	}, info)
}
