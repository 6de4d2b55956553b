// Package configloader loads the optional .emmm.yaml project file: the
// reparse depth limit, preset variables, and prelude documents parsed into
// the configuration before the main document.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/emmm/pkg/builtin"
	"github.com/yaklabco/emmm/pkg/doc"
)

// DefaultFileName is the project file searched for next to the document.
const DefaultFileName = ".emmm.yaml"

// Config is the project file contents.
type Config struct {
	// ReparseDepthLimit overrides the expansion recursion bound; zero
	// keeps the default.
	ReparseDepthLimit int `yaml:"reparse_depth_limit"`

	// Variables are preset as if by [-var name:value].
	Variables map[string]string `yaml:"variables"`

	// Preludes are EMMM files parsed against the same configuration
	// before the main document, so their definitions are available to it.
	Preludes []string `yaml:"preludes"`

	// LogLevel sets the CLI log level.
	LogLevel string `yaml:"log_level"`

	// path is the file the config was loaded from.
	path string
}

// Load reads and validates a project file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ReparseDepthLimit < 0 {
		return nil, fmt.Errorf("%s: reparse_depth_limit must not be negative", path)
	}
	cfg.path = path
	return &cfg, nil
}

// Discover looks for the project file in dir and its parents. Returns
// ok=false when none exists.
func Discover(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Path returns the file the config was loaded from, or empty.
func (c *Config) Path() string { return c.path }

// Apply configures a parse context: depth limit and preset variables.
// Prelude parsing is left to the caller because it needs the parser.
func (c *Config) Apply(cxt *doc.Context) {
	if c.ReparseDepthLimit > 0 {
		cxt.Config.ReparseDepthLimit = c.ReparseDepthLimit
	}
	names := make([]string, 0, len(c.Variables))
	for name := range c.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		builtin.SetVariable(cxt, name, c.Variables[name])
	}
}

// PreludePaths resolves the prelude entries relative to the config file.
func (c *Config) PreludePaths() []string {
	base := filepath.Dir(c.path)
	out := make([]string, 0, len(c.Preludes))
	for _, p := range c.Preludes {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(base, p))
	}
	return out
}
