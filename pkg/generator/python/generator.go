package python

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// Options controls module level output
type Options struct {
	// ClientName is the name of the client class
	ClientName string
	// BaseURL is the default for the client's base_url; empty means no default
	BaseURL string
	// StrictSecurity fails generation when a security requirement does not resolve
	StrictSecurity bool
}

// OptionsFromConfig derives Options from cfg, taking the first server URL
// of the document when no base URL is configured
func OptionsFromConfig(cfg *config.Config, in ir.IR) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := Options{
		ClientName:     cfg.ClientName,
		BaseURL:        cfg.DefaultBaseURL,
		StrictSecurity: cfg.StrictSecurity,
	}
	if opts.ClientName == "" {
		opts.ClientName = config.DefaultClientName
	}
	if opts.BaseURL == "" && len(in.Servers) > 0 {
		opts.BaseURL = in.Servers[0]
	}
	return opts
}

// PythonGenerator renders an IR as a single Python module
type PythonGenerator struct{}

// NewPythonGenerator creates a new Python generator
func NewPythonGenerator() *PythonGenerator {
	return &PythonGenerator{}
}

// GetType returns the generator type identifier
func (g *PythonGenerator) GetType() string {
	return "python"
}

// Generate renders the module source for in
func (g *PythonGenerator) Generate(in ir.IR, cfg *config.Config, diags *diag.Collector) (string, error) {
	return Render(in, OptionsFromConfig(cfg, in), diags)
}

// renderer holds what every part of the module needs while rendering
type renderer struct {
	annotator
	in   ir.IR
	opts Options
}

// Render assembles the module: header docs, imports, types, the client
// class skeleton and its methods.
func Render(in ir.IR, opts Options, diags *diag.Collector) (string, error) {
	if diags == nil {
		diags = diag.NewCollector()
	}
	if opts.ClientName == "" {
		opts.ClientName = config.DefaultClientName
	}
	r := &renderer{
		annotator: annotator{classes: classNames(in.Schemas, opts.ClientName), diags: diags},
		in:        in,
		opts:      opts,
	}

	types := r.renderTypes()
	functions, err := r.renderFunctions()
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"Header":     moduleHeader(in),
		"ClientName": opts.ClientName,
		"BaseURL":    opts.BaseURL,
		"Types":      types,
		"Functions":  functions,
	}
	var buf bytes.Buffer
	if err := renderTemplate(&buf, "module.py.gotmpl", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func moduleHeader(in ir.IR) string {
	title := "HTTP API client"
	if in.Title != "" {
		title = in.Title + " " + title
	}
	if in.Description == "" {
		return docstring(title, 0)
	}
	return docstring(title+"\n\n"+in.Description, 0)
}

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["pyString"] = pyString
	fm["pyIndent"] = indent
	return fm
}

// renderTemplate executes one of the embedded templates into buf
func renderTemplate(buf *bytes.Buffer, name string, data map[string]any) error {
	tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(templatesFS, "templates/*.gotmpl")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	if err := tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}
