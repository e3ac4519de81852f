package generator

import (
	"sort"
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
)

// ResolveSecuritySchemes maps document scheme names to the schemes we can emit.
// Anything other than inline HTTP basic auth is left out with a warning.
func ResolveSecuritySchemes(schemes openapi3.SecuritySchemes, diags *diag.Collector) map[string]ir.SecurityScheme {
	names := make([]string, 0, len(schemes))
	for n := range schemes {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make(map[string]ir.SecurityScheme)
	for _, name := range names {
		ref := schemes[name]
		switch {
		case ref != nil && ref.Ref != "":
			diags.Warnf(diag.UnsupportedSecurityScheme, name, "referenced security schemes are not supported (%s)", ref.Ref)
		case ref == nil || ref.Value == nil:
			diags.Warnf(diag.UnsupportedSecurityScheme, name, "empty security scheme")
		case isBasicAuth(ref.Value):
			out[name] = ir.SecurityBasicAuth
		default:
			diags.Warnf(diag.UnsupportedSecurityScheme, name, "unsupported security scheme type %q%s", ref.Value.Type, schemeSuffix(ref.Value))
		}
	}
	return out
}

func isBasicAuth(s *openapi3.SecurityScheme) bool {
	return s.Type == "http" &&
		strings.Contains(strings.ToLower(s.Scheme), "basic") &&
		s.BearerFormat == ""
}

func schemeSuffix(s *openapi3.SecurityScheme) string {
	if s.Scheme == "" {
		return ""
	}
	return " (scheme " + s.Scheme + ")"
}
