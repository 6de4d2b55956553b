package configloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/emmm/internal/configloader"
	"github.com/yaklabco/emmm/pkg/builtin"
	"github.com/yaklabco/emmm/pkg/parser"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, configloader.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesToContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
reparse_depth_limit: 5
variables:
  author: N. Bonaparte
log_level: debug
`)

	cfg, err := configloader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ReparseDepthLimit)
	assert.Equal(t, "debug", cfg.LogLevel)

	cxt := builtin.NewContext()
	cfg.Apply(cxt)
	assert.Equal(t, 5, cxt.Config.ReparseDepthLimit)

	d := parser.ParseString("test", "[/print $(author)]", cxt)
	require.Empty(t, d.Messages)
	dump := d.ToStripped()
	require.Len(t, dump.Root.Content, 1)
}

func TestLoad_RejectsNegativeDepth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "reparse_depth_limit: -1\n")

	_, err := configloader.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := configloader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDiscover_WalksUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := writeConfig(t, root, "log_level: info\n")

	got, ok := configloader.Discover(nested)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDiscover_NotFound(t *testing.T) {
	t.Parallel()

	_, ok := configloader.Discover(t.TempDir())
	assert.False(t, ok)
}

func TestPreludePaths_ResolveRelativeToConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "preludes:\n  - defs.emmm\n")

	cfg, err := configloader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "defs.emmm")}, cfg.PreludePaths())
}
