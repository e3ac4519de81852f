package generator

import (
	"testing"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/blimu-dev/pyclient-gen/pkg/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeDoc = `
openapi: 3.0.3
info:
  title: Store
  description: Pet store
  version: "1"
servers:
  - url: https://store.example.com/v1
  - url: https://staging.example.com/v1
paths:
  /pets:
    get:
      tags: [pets]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
  /admin/reset:
    post:
      tags: [admin, internal]
      responses: {}
  /health:
    get:
      responses: {}
components:
  securitySchemes:
    basic: {type: http, scheme: basic}
    token: {type: http, scheme: bearer, bearerFormat: JWT}
  schemas:
    Pet:
      type: object
      properties:
        name: {type: string}
    Kind:
      type: string
      enum: [cat, dog]
    Names:
      type: array
      items: {type: string}
`

func loadStore(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi.Decode([]byte(storeDoc), openapi.FormatYAML)
	require.NoError(t, err)
	return doc
}

func TestBuildIR(t *testing.T) {
	diags := diag.NewCollector()
	result, err := BuildIR(loadStore(t), nil, diags)
	require.NoError(t, err)

	assert.Equal(t, "Store", result.Title)
	assert.Equal(t, "Pet store", result.Description)
	assert.Equal(t, []string{"https://store.example.com/v1", "https://staging.example.com/v1"}, result.Servers)
	assert.Equal(t, map[string]ir.SecurityScheme{"basic": ir.SecurityBasicAuth}, result.SecuritySchemes)

	// Kind fails and is left out; the rest come back in name order
	require.Len(t, result.Schemas, 2)
	assert.Equal(t, "Names", result.Schemas[0].Name)
	assert.Equal(t, ir.List(ir.Scalar(ir.KindString)), result.Schemas[0].Type)
	assert.Equal(t, "Pet", result.Schemas[1].Name)
	assert.True(t, diags.Has(diag.SkippedSchema, "Kind"))
	assert.True(t, diags.Has(diag.UnsupportedSecurityScheme, "token"))

	assert.Equal(t, []ir.FunctionKey{
		{Method: "get", Path: "/health"},
		{Method: "get", Path: "/pets"},
		{Method: "post", Path: "/admin/reset"},
	}, result.FunctionKeys())
	assert.Equal(t, ir.List(ir.RefTo("Pet")), result.Functions[ir.FunctionKey{Method: "get", Path: "/pets"}].Responses["200"])
}

func TestBuildIRTagFilters(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected []ir.FunctionKey
	}{
		{
			name:     "include pets",
			cfg:      config.Config{IncludeTags: []string{"^pets$"}},
			expected: []ir.FunctionKey{{Method: "get", Path: "/pets"}},
		},
		{
			name: "exclude internal",
			cfg:  config.Config{ExcludeTags: []string{"internal"}},
			expected: []ir.FunctionKey{
				{Method: "get", Path: "/health"},
				{Method: "get", Path: "/pets"},
			},
		},
		{
			name:     "untagged operations are misc",
			cfg:      config.Config{IncludeTags: []string{"misc"}},
			expected: []ir.FunctionKey{{Method: "get", Path: "/health"}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := BuildIR(loadStore(t), &test.cfg, diag.NewCollector())
			require.NoError(t, err)
			assert.Equal(t, test.expected, result.FunctionKeys())
		})
	}
}

func TestBuildIRFailsOnOperation(t *testing.T) {
	doc, err := openapi.Decode([]byte(`
openapi: 3.0.3
info: {title: Bad, version: "1"}
paths:
  /things:
    post:
      requestBody: {$ref: '#/components/requestBodies/Thing'}
      responses: {}
`), openapi.FormatYAML)
	require.NoError(t, err)

	_, err = BuildIR(doc, config.Default(), diag.NewCollector())
	require.Error(t, err)
	assert.True(t, ir.IsUnimplemented(err))
	assert.Contains(t, err.Error(), "POST /things")
}

func TestBuildIRBadTagPattern(t *testing.T) {
	_, err := BuildIR(loadStore(t), &config.Config{IncludeTags: []string{"("}}, diag.NewCollector())
	assert.Error(t, err)
}

func TestBuildIREmptyDocument(t *testing.T) {
	result, err := BuildIR(&openapi3.T{}, nil, diag.NewCollector())
	require.NoError(t, err)
	assert.Empty(t, result.Functions)
	assert.Empty(t, result.Schemas)
	assert.Empty(t, result.Title)
}

func TestResolveSecuritySchemes(t *testing.T) {
	schemes := openapi3.SecuritySchemes{
		"basic":     {Value: &openapi3.SecurityScheme{Type: "http", Scheme: "Basic"}},
		"odd":       {Value: &openapi3.SecurityScheme{Type: "http", Scheme: "basic", BearerFormat: "JWT"}},
		"bearer":    {Value: &openapi3.SecurityScheme{Type: "http", Scheme: "bearer"}},
		"key":       {Value: &openapi3.SecurityScheme{Type: "apiKey", Name: "X-Key", In: "header"}},
		"oauth":     {Value: &openapi3.SecurityScheme{Type: "oauth2"}},
		"oidc":      {Value: &openapi3.SecurityScheme{Type: "openIdConnect"}},
		"shared":    {Ref: "#/components/securitySchemes/basic"},
		"undefined": nil,
	}
	diags := diag.NewCollector()

	got := ResolveSecuritySchemes(schemes, diags)
	assert.Equal(t, map[string]ir.SecurityScheme{"basic": ir.SecurityBasicAuth}, got)
	assert.Equal(t, 7, diags.Len())
	for _, name := range []string{"odd", "bearer", "key", "oauth", "oidc", "shared", "undefined"} {
		assert.True(t, diags.Has(diag.UnsupportedSecurityScheme, name), name)
	}
}
