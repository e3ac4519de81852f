// Package pyclientgen generates typed Python HTTP clients from OpenAPI v3 documents.
//
// The output is a single Python module: pydantic models for the component
// schemas and an aiohttp based client class with one async method per operation.
//
// Quick Start:
//
//	import "github.com/blimu-dev/pyclient-gen"
//
//	source, err := pyclientgen.GenerateFromFile("./openapi.yaml", pyclientgen.Options{
//		ClientName: "PetStoreClient",
//	})
//
// For more advanced usage, see the generator package.
package pyclientgen

import (
	"io"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/generator"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
)

// Options contains options for client generation. Zero values use defaults.
type Options struct {
	ClientName     string   // Client class name, "ApiClient" when empty
	BaseURL        string   // Default base_url; the first server URL when empty
	IncludeTags    []string // Regex patterns for tags to include
	ExcludeTags    []string // Regex patterns for tags to exclude
	StrictSecurity bool     // Fail on operations whose security scheme is not supported

	// DropReferencedParameters skips referenced parameters with a warning
	// instead of failing generation
	DropReferencedParameters bool
}

func (o Options) config() *config.Config {
	cfg := &config.Config{
		ClientName:               o.ClientName,
		DefaultBaseURL:           o.BaseURL,
		IncludeTags:              o.IncludeTags,
		ExcludeTags:              o.ExcludeTags,
		StrictSecurity:           o.StrictSecurity,
		DropReferencedParameters: o.DropReferencedParameters,
	}
	cfg.ApplyDefaults()
	return cfg
}

// Diagnostic is a warning about a part of the document that was skipped or degraded
type Diagnostic = diag.Diagnostic

// GenerateFromFile generates a client module from a local OpenAPI document.
// Files ending in ".json" are decoded as JSON, everything else as YAML.
//
// Example:
//
//	source, err := pyclientgen.GenerateFromFile("./openapi.yaml", pyclientgen.Options{
//		ClientName:  "ShopClient",
//		IncludeTags: []string{"orders"},
//	})
//	if err != nil {
//		log.Fatalf("Failed to generate client: %v", err)
//	}
//	os.WriteFile("shop_client.py", []byte(source), 0o644)
func GenerateFromFile(specPath string, opts Options) (string, error) {
	source, _, err := GenerateWithDiagnostics(specPath, opts)
	return source, err
}

// GenerateWithDiagnostics is GenerateFromFile that also returns the warnings
// collected during generation.
func GenerateWithDiagnostics(specPath string, opts Options) (string, []Diagnostic, error) {
	res, err := generator.GenerateFromFile(specPath, opts.config())
	if err != nil {
		return "", nil, err
	}
	return res.Source, res.Diagnostics, nil
}

// GenerateFromReader generates a client module from a document read from r.
// format is "yaml" or "json".
//
// Example:
//
//	source, err := pyclientgen.GenerateFromReader(os.Stdin, "json", pyclientgen.Options{})
func GenerateFromReader(r io.Reader, format string, opts Options) (string, error) {
	f, err := openapi.ParseFormat(format)
	if err != nil {
		return "", err
	}
	res, err := generator.GenerateFromReader(r, f, opts.config())
	if err != nil {
		return "", err
	}
	return res.Source, nil
}

// GenerateFromConfig generates a client module using a YAML configuration file.
//
// Example:
//
//	source, err := pyclientgen.GenerateFromConfig("./pyclient-gen.yaml", "./openapi.yaml")
func GenerateFromConfig(configPath, specPath string) (string, error) {
	res, err := generator.GenerateFromConfig(configPath, specPath)
	if err != nil {
		return "", err
	}
	return res.Source, nil
}
