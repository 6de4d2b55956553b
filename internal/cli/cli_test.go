package cli_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/emmm/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "none", Date: "today"}
}

func TestNewRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(testInfo())

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"check", "render", "convert", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestCheck_CleanDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.emmm")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o644))

	root := cli.NewRootCommand(testInfo())
	root.SetArgs([]string{"check", "--color", "never", path})
	assert.NoError(t, root.Execute())
}

func TestCheck_DocumentWithErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.emmm")
	require.NoError(t, os.WriteFile(path, []byte("[.totally-unknown] x\n"), 0o644))

	root := cli.NewRootCommand(testInfo())
	root.SetArgs([]string{"check", "--color", "never", path})
	err := root.Execute()
	assert.True(t, errors.Is(err, cli.ErrIssuesFound), "expected ErrIssuesFound, got %v", err)
}

func TestRender_WritesOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.emmm")
	output := filepath.Join(dir, "doc.html")
	src := "[.heading 1] Hi\n\nbody text\n"
	require.NoError(t, os.WriteFile(input, []byte(src), 0o644))

	root := cli.NewRootCommand(testInfo())
	root.SetArgs([]string{"render", "--color", "never", "-o", output, input})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Hi</h1>")
	assert.Contains(t, string(data), "<p>body text</p>")
}

func TestConvert_WritesEMMM(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	output := filepath.Join(dir, "doc.emmm")
	require.NoError(t, os.WriteFile(input, []byte("# Hi\n\n*styled*\n"), 0o644))

	root := cli.NewRootCommand(testInfo())
	root.SetArgs([]string{"convert", "-o", output, input})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[.heading 1] Hi")
	assert.Contains(t, string(data), "[/emph]styled[;]")
}

func TestCheck_UsesProjectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".emmm.yaml"),
		[]byte("variables:\n  name: world\n"), 0o644))
	path := filepath.Join(dir, "doc.emmm")
	require.NoError(t, os.WriteFile(path, []byte("[/print $(name)]\n"), 0o644))

	root := cli.NewRootCommand(testInfo())
	root.SetArgs([]string{"check", "--color", "never", path})
	assert.NoError(t, root.Execute())
}
