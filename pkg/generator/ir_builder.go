package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// untaggedTag is the tag assumed for operations without tags
const untaggedTag = "misc"

// pathOperations returns the operations of a path item keyed by lowercase method
func pathOperations(item *openapi3.PathItem) []struct {
	method string
	op     *openapi3.Operation
} {
	return []struct {
		method string
		op     *openapi3.Operation
	}{
		{"get", item.Get},
		{"put", item.Put},
		{"post", item.Post},
		{"delete", item.Delete},
		{"options", item.Options},
		{"head", item.Head},
		{"patch", item.Patch},
		{"trace", item.Trace},
	}
}

// BuildIR resolves a whole document. Component schemas that fail to resolve
// are left out with a warning; a failing operation fails the build.
func BuildIR(doc *openapi3.T, cfg *config.Config, diags *diag.Collector) (ir.IR, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	include, exclude, err := compileTagFilters(cfg.IncludeTags, cfg.ExcludeTags)
	if err != nil {
		return ir.IR{}, err
	}

	result := ir.IR{
		Functions:       map[ir.FunctionKey]ir.Function{},
		SecuritySchemes: map[string]ir.SecurityScheme{},
	}
	if doc.Info != nil {
		result.Title = doc.Info.Title
		result.Description = doc.Info.Description
	}
	for _, s := range doc.Servers {
		if s != nil && s.URL != "" {
			result.Servers = append(result.Servers, s.URL)
		}
	}

	if doc.Components != nil {
		result.SecuritySchemes = ResolveSecuritySchemes(doc.Components.SecuritySchemes, diags)
		result.Schemas = resolveSchemas(doc.Components.Schemas, diags)
	}

	if doc.Paths == nil {
		return result, nil
	}
	opts := OperationOptions{DropReferencedParameters: cfg.DropReferencedParameters}
	paths := doc.Paths.Map()
	for _, path := range sortedKeys(paths) {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, entry := range pathOperations(item) {
			if entry.op == nil {
				continue
			}
			if !shouldIncludeOperation(operationTags(entry.op), include, exclude) {
				continue
			}
			subject := fmt.Sprintf("%s %s", strings.ToUpper(entry.method), path)
			fn, err := ResolveFunction(item, entry.op, doc.Security, subject, opts, diags)
			if err != nil {
				return ir.IR{}, errors.WithMessage(err, subject)
			}
			result.Functions[ir.FunctionKey{Method: entry.method, Path: path}] = fn
		}
	}
	return result, nil
}

func resolveSchemas(schemas openapi3.Schemas, diags *diag.Collector) []ir.NamedType {
	var out []ir.NamedType
	for _, name := range sortedKeys(schemas) {
		t, err := ResolveType(schemas[name])
		if err != nil {
			diags.Warnf(diag.SkippedSchema, name, "%v", err)
			continue
		}
		out = append(out, ir.NamedType{Name: name, Type: t})
	}
	return out
}

// operationTags returns the operation's tags, or the untagged marker
func operationTags(op *openapi3.Operation) []string {
	if len(op.Tags) == 0 {
		return []string{untaggedTag}
	}
	tags := make([]string, len(op.Tags))
	copy(tags, op.Tags)
	return tags
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	cfg := config.Config{IncludeTags: include, ExcludeTags: exclude}
	return cfg.CompileTagFilters()
}

// shouldIncludeOperation determines if an operation should be included based on its original tags
func shouldIncludeOperation(originalTags []string, include, exclude []*regexp.Regexp) bool {
	// If no include patterns, assume all tags are initially included
	included := len(include) == 0

	// operation is included if ANY of its tags match ANY include pattern
	for _, tag := range originalTags {
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
		if included {
			break
		}
	}
	if !included {
		return false
	}

	// operation is excluded if ANY of its tags match ANY exclude pattern
	for _, tag := range originalTags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
