package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/emmm/internal/configloader"
	"github.com/yaklabco/emmm/internal/logging"
	"github.com/yaklabco/emmm/pkg/builtin"
	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/parser"
	"github.com/yaklabco/emmm/pkg/source"
)

// parseResult bundles one parsed document with its source text.
type parseResult struct {
	doc *doc.Document
	src string
}

// parseFile sets up a context from the project file (if any), parses the
// preludes, then parses path against the live configuration.
func parseFile(path string, opts *globalOptions) (*parseResult, error) {
	logger := logging.Default()

	cxt := builtin.NewContext()

	cfgPath := opts.configPath
	if cfgPath == "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			cfgPath, _ = configloader.Discover(filepath.Dir(abs))
		}
	}
	if cfgPath != "" {
		cfg, err := configloader.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		if cfg.LogLevel != "" && !opts.debug {
			logging.SetLevel(cfg.LogLevel)
		}
		cfg.Apply(cxt)
		logger.Debug("loaded project file",
			logging.FieldPath, cfgPath,
			logging.FieldDepthLimit, cxt.Config.ReparseDepthLimit,
			logging.FieldVariables, len(cfg.Variables))
		for _, prelude := range cfg.PreludePaths() {
			if err := parsePrelude(prelude, cxt); err != nil {
				return nil, err
			}
			logger.Debug("parsed prelude", logging.FieldPrelude, prelude)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	src := string(data)
	d := parser.Parse(source.NewScanner(source.NewDescriptor(path), src), cxt)
	logger.Debug("parsed document",
		logging.FieldInput, path,
		logging.FieldMessages, len(d.Messages))
	return &parseResult{doc: d, src: src}, nil
}

// parsePrelude runs a prelude document against the shared context so its
// definitions carry over. An error-severity prelude diagnostic becomes a
// host error; warnings and infos are ignored.
func parsePrelude(path string, cxt *doc.Context) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read prelude: %w", err)
	}
	d := parser.Parse(source.NewScanner(source.NewDescriptor(path), string(data)), cxt)
	for _, m := range d.Messages {
		if m.Unwrap().Severity == message.SeverityError {
			return fmt.Errorf("prelude %s: %s", path, m)
		}
	}
	return nil
}

// countBySeverity tallies messages at each severity.
func countBySeverity(msgs []*message.Message) (errors, warnings, infos int) {
	for _, m := range msgs {
		switch m.Unwrap().Severity {
		case message.SeverityError:
			errors++
		case message.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}
