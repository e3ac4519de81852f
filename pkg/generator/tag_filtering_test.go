package generator

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func TestShouldIncludeOperation(t *testing.T) {
	tests := []struct {
		name        string
		tags        []string
		includeTags []string
		excludeTags []string
		expected    bool
	}{
		{"no filters", []string{"pets", "internal"}, nil, nil, true},
		{"include matches first tag", []string{"pets", "internal"}, []string{"pets"}, nil, true},
		{"include matches second tag", []string{"internal", "pets"}, []string{"pets"}, nil, true},
		{"include matches none", []string{"internal", "admin"}, []string{"pets"}, nil, false},
		{"exclude matches any tag", []string{"pets", "internal"}, nil, []string{"internal"}, false},
		{"exclude wins over include", []string{"pets", "internal"}, []string{"pets"}, []string{"internal"}, false},
		{"include matches, exclude does not", []string{"pets", "public"}, []string{"pets"}, []string{"internal"}, true},
		{"regex on both sides", []string{"pets_v1", "store_api"}, []string{"^pets_.*"}, []string{".*_api$"}, false},
		{"any of several include patterns", []string{"orders"}, []string{"pets", "orders"}, nil, true},
		{"untagged marker can be excluded", []string{untaggedTag}, nil, []string{"^misc$"}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			include, exclude, err := compileTagFilters(test.includeTags, test.excludeTags)
			if err != nil {
				t.Fatalf("compileTagFilters: %v", err)
			}
			result := shouldIncludeOperation(test.tags, include, exclude)
			if result != test.expected {
				t.Errorf("shouldIncludeOperation(%v, %v, %v) = %v, expected %v",
					test.tags, test.includeTags, test.excludeTags, result, test.expected)
			}
		})
	}
}

func TestCompileTagFiltersRejectsBadPattern(t *testing.T) {
	if _, _, err := compileTagFilters([]string{"("}, nil); err == nil {
		t.Error("expected an error for an invalid include pattern")
	}
	if _, _, err := compileTagFilters(nil, []string{"["}); err == nil {
		t.Error("expected an error for an invalid exclude pattern")
	}
}

func TestOperationTags(t *testing.T) {
	if got := operationTags(&openapi3.Operation{}); len(got) != 1 || got[0] != untaggedTag {
		t.Errorf("operationTags(untagged) = %v, expected [%s]", got, untaggedTag)
	}
	op := &openapi3.Operation{Tags: []string{"pets", "store"}}
	got := operationTags(op)
	got[0] = "changed"
	if op.Tags[0] != "pets" {
		t.Error("operationTags must not alias the operation's tags")
	}
}
