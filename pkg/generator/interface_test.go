package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) GetType() string { return "count" }

func (g *countingGenerator) Generate(in ir.IR, _ *config.Config, diags *diag.Collector) (string, error) {
	g.calls++
	diags.Warnf(diag.SkippedSchema, "count", "rendered %d functions", len(in.Functions))
	return "ok", nil
}

const serviceDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "Svc", "version": "1"},
  "paths": {
    "/ping": {
      "get": {
        "tags": ["health"],
        "parameters": [{"name": "X-Trace", "in": "header", "schema": {"type": "string"}}],
        "responses": {"204": {"description": "pong"}}
      }
    }
  }
}`

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("python")
	assert.False(t, ok)

	gen := &countingGenerator{}
	r.Register(gen)
	got, ok := r.Get("count")
	require.True(t, ok)
	assert.Same(t, gen, got)

	assert.Equal(t, []string{"python"}, NewService().GetRegistry().GetAvailableTypes())
}

func TestServiceGenerate(t *testing.T) {
	doc, err := openapi.Decode([]byte(serviceDoc), openapi.FormatJSON)
	require.NoError(t, err)

	res, err := NewService().Generate(doc, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Source, `"""Svc HTTP API client"""`))
	assert.Contains(t, res.Source, "    async def get_ping(self) -> None:\n")
	assert.Len(t, res.IR.Functions, 1)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.UnimplementedLocation, res.Diagnostics[0].Kind)
	assert.Equal(t, "GET /ping", res.Diagnostics[0].Subject)
}

func TestServiceGenerateCustomRegistry(t *testing.T) {
	doc, err := openapi.Decode([]byte(serviceDoc), openapi.FormatJSON)
	require.NoError(t, err)

	gen := &countingGenerator{}
	registry := NewRegistry()
	registry.Register(gen)
	svc := NewServiceWithRegistry(registry)

	// empty fields take their defaults, so the python target is missing here
	_, err = svc.Generate(doc, &config.Config{})
	assert.EqualError(t, err, "unsupported target: python")
	assert.Zero(t, gen.calls)

	res, err := svc.Generate(doc, &config.Config{Target: "count", ExcludeTags: []string{"^health$"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Source)
	assert.Equal(t, 1, gen.calls)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "rendered 0 functions", res.Diagnostics[0].Message)
}

func TestServiceGenerateRejectsInvalidConfig(t *testing.T) {
	doc, err := openapi.Decode([]byte(serviceDoc), openapi.FormatJSON)
	require.NoError(t, err)

	_, err = NewService().Generate(doc, &config.Config{ClientName: "not a class"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientName")
}

func TestServiceGenerateFailureHasNoOutput(t *testing.T) {
	doc, err := openapi.Decode([]byte(`
openapi: 3.0.3
info: {title: Bad, version: "1"}
paths:
  /pets:
    get:
      responses:
        "200": {$ref: '#/components/responses/Ok'}
`), openapi.FormatYAML)
	require.NoError(t, err)

	res, err := NewService().Generate(doc, nil)
	require.Error(t, err)
	assert.True(t, ir.IsUnimplemented(err))
	assert.Contains(t, err.Error(), "GET /pets")
	assert.Empty(t, res.Source)
	assert.Empty(t, res.Diagnostics)
}

func TestGenerateFromReader(t *testing.T) {
	res, err := GenerateFromReader(strings.NewReader(serviceDoc), openapi.FormatJSON, &config.Config{ClientName: "Svc"})
	require.NoError(t, err)
	assert.Contains(t, res.Source, "class Svc:\n")

	_, err = GenerateFromReader(strings.NewReader("{"), openapi.FormatJSON, nil)
	assert.Error(t, err)
}

func TestGenerateFromFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "svc.json")
	configPath := filepath.Join(dir, "pyclient-gen.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(serviceDoc), 0o600))
	require.NoError(t, os.WriteFile(configPath, []byte("clientName: PingClient\ndefaultBaseURL: http://localhost\n"), 0o600))

	res, err := GenerateFromFile(specPath, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "class ApiClient:\n")

	res, err = GenerateFromConfig(configPath, specPath)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "class PingClient:\n")
	assert.Contains(t, res.Source, `base_url: str = "http://localhost",`)

	_, err = GenerateFromFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}
