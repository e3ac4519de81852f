package generator

import (
	"sort"

	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// ResolveField resolves a property schema into a Field.
// Deprecated properties become Optional and get a note appended to their docs.
func ResolveField(sr *openapi3.SchemaRef) (ir.Field, error) {
	t, err := ResolveType(sr)
	if err != nil {
		return ir.Field{}, err
	}
	var (
		docs       string
		deprecated bool
	)
	if sr.Ref == "" && sr.Value != nil {
		docs = sr.Value.Description
		deprecated = sr.Value.Deprecated
	}
	return ir.NewField(t, docs, deprecated), nil
}

// ResolveStruct folds every property into a Struct. A property that fails
// to resolve fails the whole struct.
func ResolveStruct(properties openapi3.Schemas, docs string) (ir.Struct, error) {
	names := make([]string, 0, len(properties))
	for n := range properties {
		names = append(names, n)
	}
	sort.Strings(names)

	st := ir.Struct{Docs: docs, Fields: make(map[string]ir.Field, len(properties))}
	for _, n := range names {
		f, err := ResolveField(properties[n])
		if err != nil {
			return ir.Struct{}, errors.WithMessagef(err, "property %q", n)
		}
		st.Fields[n] = f
	}
	return st, nil
}
