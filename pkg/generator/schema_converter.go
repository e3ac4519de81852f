package generator

import (
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// typeNull is the JSON Schema null type name
const typeNull = "null"

// typeAttempt is one step of the type resolver chain. It returns
// ir.ErrOtherType when the schema is not its shape.
type typeAttempt struct {
	name string
	try  func(sr *openapi3.SchemaRef) (ir.Type, error)
}

// typeAttempts lists the resolvers in the order they are tried.
// It is a function because the object resolver recurses back into ResolveType.
func typeAttempts() []typeAttempt {
	return []typeAttempt{
		{"ref", resolveRefType},
		{"unsupported", rejectUnsupported},
		{"object", resolveObjectType},
		{"null", scalarAttempt(typeNull, ir.KindNone)},
		{"string", scalarAttempt(openapi3.TypeString, ir.KindString)},
		{"number", scalarAttempt(openapi3.TypeNumber, ir.KindFloat)},
		{"integer", scalarAttempt(openapi3.TypeInteger, ir.KindInteger)},
		{"boolean", scalarAttempt(openapi3.TypeBoolean, ir.KindBool)},
		{"array", resolveArrayType},
		{"untyped", resolveUntyped},
	}
}

// ResolveType converts a schema reference into an ir.Type.
// The first attempt that succeeds wins; an Unimplemented error stops the scan.
func ResolveType(sr *openapi3.SchemaRef) (ir.Type, error) {
	if sr == nil || (sr.Ref == "" && sr.Value == nil) {
		return ir.Type{}, ir.Unimplementedf("empty schema")
	}
	for _, attempt := range typeAttempts() {
		t, err := attempt.try(sr)
		if err == nil {
			if sr.Ref == "" && sr.Value.Nullable {
				t = ir.Optional(t)
			}
			return t, nil
		}
		if ir.IsOtherType(err) {
			continue
		}
		return ir.Type{}, err
	}
	return ir.Type{}, ir.Unimplementedf("unrecognized schema shape (type %v)", schemaTypes(sr.Value))
}

// refName returns the last path segment of a $ref, e.g. "Pet" for "#/components/schemas/Pet"
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func resolveRefType(sr *openapi3.SchemaRef) (ir.Type, error) {
	if sr.Ref == "" {
		return ir.Type{}, ir.ErrOtherType
	}
	name := refName(sr.Ref)
	if name == "" {
		return ir.Type{}, ir.Unimplementedf("cannot name reference %q", sr.Ref)
	}
	return ir.RefTo(name), nil
}

func rejectUnsupported(sr *openapi3.SchemaRef) (ir.Type, error) {
	s := sr.Value
	switch {
	case len(s.Enum) > 0:
		return ir.Type{}, ir.Unimplementedf("keyword %q", "enum")
	case len(s.OneOf) > 0:
		return ir.Type{}, ir.Unimplementedf("keyword %q", "oneOf")
	case len(s.AnyOf) > 0:
		return ir.Type{}, ir.Unimplementedf("keyword %q", "anyOf")
	case len(s.AllOf) > 0:
		return ir.Type{}, ir.Unimplementedf("keyword %q", "allOf")
	case s.Not != nil:
		return ir.Type{}, ir.Unimplementedf("keyword %q", "not")
	case len(schemaTypes(s)) > 1:
		return ir.Type{}, ir.Unimplementedf("multiple types %v", schemaTypes(s))
	}
	return ir.Type{}, ir.ErrOtherType
}

func resolveObjectType(sr *openapi3.SchemaRef) (ir.Type, error) {
	s := sr.Value
	isObject := s.Type.Is(openapi3.TypeObject) || (len(schemaTypes(s)) == 0 && len(s.Properties) > 0)
	if !isObject {
		return ir.Type{}, ir.ErrOtherType
	}
	st, err := ResolveStruct(s.Properties, s.Description)
	if err != nil {
		return ir.Type{}, err
	}
	return ir.StructOf(st), nil
}

func scalarAttempt(schemaType string, kind ir.Kind) func(*openapi3.SchemaRef) (ir.Type, error) {
	return func(sr *openapi3.SchemaRef) (ir.Type, error) {
		if !sr.Value.Type.Is(schemaType) {
			return ir.Type{}, ir.ErrOtherType
		}
		return ir.Scalar(kind), nil
	}
}

func resolveArrayType(sr *openapi3.SchemaRef) (ir.Type, error) {
	s := sr.Value
	if !s.Type.Is(openapi3.TypeArray) {
		return ir.Type{}, ir.ErrOtherType
	}
	if s.Items == nil {
		return ir.Scalar(ir.KindAny), nil
	}
	item, err := ResolveType(s.Items)
	if err != nil {
		return ir.Type{}, errors.WithMessage(err, "array items")
	}
	if s.UniqueItems {
		return ir.Set(item), nil
	}
	return ir.List(item), nil
}

// resolveUntyped accepts schemas that carry no type-bearing keyword at all
func resolveUntyped(sr *openapi3.SchemaRef) (ir.Type, error) {
	s := sr.Value
	if len(schemaTypes(s)) > 0 || s.Items != nil {
		return ir.Type{}, ir.ErrOtherType
	}
	return ir.Scalar(ir.KindAny), nil
}

func schemaTypes(s *openapi3.Schema) []string {
	if s == nil || s.Type == nil {
		return nil
	}
	return s.Type.Slice()
}
