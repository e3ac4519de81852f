package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/generator"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
)

// RunParams are the inputs of a single generation run
type RunParams struct {
	Format     openapi.Format
	ConfigPath string

	// Flag overrides; zero values leave the config untouched
	ClientName               string
	BaseURL                  string
	IncludeTags              []string
	ExcludeTags              []string
	StrictSecurity           bool
	DropReferencedParameters bool

	Verbose bool

	// Optional overrides for testing; when nil, os.Stdin/os.Stdout/os.Stderr are used.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run reads a document from stdin and writes the generated module to stdout.
// Diagnostics are logged to stderr. Nothing is written to stdout on failure.
func Run(p RunParams) error {
	logger := newLogger(p.stderr(), p.Verbose)

	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}

	doc, err := openapi.DecodeReader(p.stdin(), p.Format)
	if err != nil {
		return err
	}

	res, err := generator.NewService().Generate(doc, cfg)
	if err != nil {
		return err
	}

	for _, key := range res.IR.FunctionKeys() {
		fn := res.IR.Functions[key]
		logger.Debug("resolved operation", "method", key.Method, "path", key.Path,
			"arguments", len(fn.Arguments), "responses", len(fn.Responses))
	}
	logDiagnostics(logger, res.Diagnostics)

	w := bufio.NewWriter(p.stdout())
	if _, err := w.WriteString(res.Source); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Debug("generated module", "bytes", len(res.Source), "types", len(res.IR.Schemas), "functions", len(res.IR.Functions))
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides
func (p RunParams) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if p.ConfigPath != "" {
		loaded, err := config.Load(p.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if p.ClientName != "" {
		cfg.ClientName = p.ClientName
	}
	if p.BaseURL != "" {
		cfg.DefaultBaseURL = p.BaseURL
	}
	if len(p.IncludeTags) > 0 {
		cfg.IncludeTags = p.IncludeTags
	}
	if len(p.ExcludeTags) > 0 {
		cfg.ExcludeTags = p.ExcludeTags
	}
	if p.StrictSecurity {
		cfg.StrictSecurity = true
	}
	if p.DropReferencedParameters {
		cfg.DropReferencedParameters = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logDiagnostics(logger *slog.Logger, diags []diag.Diagnostic) {
	for _, d := range diags {
		logger.Warn(d.Message, "kind", string(d.Kind), "subject", d.Subject)
	}
}
