package generator

import (
	"io"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
)

// GenerateFromFile is a convenience function that loads a document from disk
// and generates a client with the default service. A nil cfg uses defaults.
func GenerateFromFile(specPath string, cfg *config.Config) (Result, error) {
	doc, err := openapi.LoadDocument(specPath)
	if err != nil {
		return Result{}, err
	}
	return NewService().Generate(doc, cfg)
}

// GenerateFromReader decodes a document from r in the given format and
// generates a client with the default service
func GenerateFromReader(r io.Reader, format openapi.Format, cfg *config.Config) (Result, error) {
	doc, err := openapi.DecodeReader(r, format)
	if err != nil {
		return Result{}, err
	}
	return NewService().Generate(doc, cfg)
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(configPath, specPath string) (Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return Result{}, err
	}
	return GenerateFromFile(specPath, cfg)
}
