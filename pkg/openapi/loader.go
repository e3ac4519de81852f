package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oasdiff/yaml"
)

// Format is the serialization of an input document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml" or "json"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown document format %q (expected yaml or json)", s)
}

// Decode parses a document in the given format. References are kept as
// written and are not resolved or validated.
func Decode(data []byte, format Format) (*openapi3.T, error) {
	switch format {
	case FormatYAML:
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
		data = converted
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}

	doc := &openapi3.T{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return doc, nil
}

// DecodeReader reads r to the end and decodes it
func DecodeReader(r io.Reader, format Format) (*openapi3.T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, format)
}

// LoadDocument reads a document from a local file. ".json" files are decoded
// as JSON, everything else as YAML.
func LoadDocument(path string) (*openapi3.T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	return Decode(data, format)
}
