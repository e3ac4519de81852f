package ir

import (
	"reflect"
	"sort"
)

// Kind identifies which variant of Type is populated
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindNone     Kind = "none"
	KindAny      Kind = "any"
	KindOptional Kind = "optional"
	KindList     Kind = "list"
	KindSet      Kind = "set"
	KindStruct   Kind = "struct"
	KindRef      Kind = "ref"
)

// Type is the resolved shape of a schema.
//
// Elem is set for Optional, List and Set. Struct is set for Struct.
// Ref holds the name of a top-level component schema and is only
// looked up when rendering, so self-referential schemas are fine.
type Type struct {
	Kind   Kind
	Elem   *Type
	Struct *Struct
	Ref    string
}

// Scalar returns a Type for one of the leaf kinds
func Scalar(k Kind) Type {
	return Type{Kind: k}
}

// Optional wraps t, leaving an already optional type untouched
func Optional(t Type) Type {
	if t.Kind == KindOptional {
		return t
	}
	return Type{Kind: KindOptional, Elem: &t}
}

// List returns a list of t
func List(t Type) Type {
	return Type{Kind: KindList, Elem: &t}
}

// Set returns a deduplicated list of t
func Set(t Type) Type {
	return Type{Kind: KindSet, Elem: &t}
}

// RefTo returns a reference to the named component schema
func RefTo(name string) Type {
	return Type{Kind: KindRef, Ref: name}
}

// StructOf returns a Type holding s
func StructOf(s Struct) Type {
	return Type{Kind: KindStruct, Struct: &s}
}

// IsOptional reports whether t is wrapped in Optional
func (t Type) IsOptional() bool {
	return t.Kind == KindOptional
}

// Unwrap strips one Optional layer if present
func (t Type) Unwrap() Type {
	if t.Kind == KindOptional && t.Elem != nil {
		return *t.Elem
	}
	return t
}

// IsScalar reports whether t is a leaf JSON value
func (t Type) IsScalar() bool {
	switch t.Kind {
	case KindString, KindInteger, KindFloat, KindBool, KindAny:
		return true
	}
	return false
}

// Equal reports structural equality
func (t Type) Equal(other Type) bool {
	return reflect.DeepEqual(t, other)
}

// Field is one property of a Struct
type Field struct {
	Type Type
	Docs string
	// Deprecated fields are always Optional; see NewField
	Deprecated bool
}

// DeprecationNote is appended to the docs of deprecated fields
const DeprecationNote = "Deprecated."

// NewField builds a Field, applying the deprecation transform when needed
func NewField(t Type, docs string, deprecated bool) Field {
	if !deprecated {
		return Field{Type: t, Docs: docs}
	}
	if docs == "" {
		docs = DeprecationNote
	} else {
		docs = docs + "\n\n" + DeprecationNote
	}
	return Field{Type: Optional(t), Docs: docs, Deprecated: true}
}

// Struct is a collection of named fields
type Struct struct {
	Docs   string
	Fields map[string]Field
}

// FieldNames returns the field names in render order
func (s Struct) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Location tells where an argument travels in the request
type Location string

const (
	LocationPath          Location = "path"
	LocationQuery         Location = "query"
	LocationBody          Location = "body"
	LocationUnimplemented Location = "unimplemented"
)

// Argument is one input to a generated function
type Argument struct {
	Name     string
	Type     Type
	Location Location
}

// Function is the resolved form of one OpenAPI operation
type Function struct {
	Docs      string
	Arguments []Argument
	// SecuritySchemes are requirement names as written in the document.
	// They are matched against IR.SecuritySchemes only when rendering.
	SecuritySchemes []string
	// Responses maps a status code string ("200", "4XX", "default") to its payload type
	Responses map[string]Type
}

// StatusCodes returns the response keys in branch order
func (f Function) StatusCodes() []string {
	codes := make([]string, 0, len(f.Responses))
	for c := range f.Responses {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// FunctionKey identifies a Function by HTTP method and path template
type FunctionKey struct {
	Method string
	Path   string
}

// SecurityScheme is the closed set of authentication methods we can emit
type SecurityScheme string

const (
	SecurityBasicAuth SecurityScheme = "basic"
)

// NamedType is a resolved top-level component schema
type NamedType struct {
	Name string
	Type Type
}

// IR represents the complete intermediate representation of an OpenAPI document
type IR struct {
	Title       string
	Description string
	Servers     []string
	// Schemas is sorted by name
	Schemas         []NamedType
	Functions       map[FunctionKey]Function
	SecuritySchemes map[string]SecurityScheme
}

// FunctionKeys returns the function keys ordered by method, then path
func (in IR) FunctionKeys() []FunctionKey {
	keys := make([]FunctionKey, 0, len(in.Functions))
	for k := range in.Functions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Method == keys[j].Method {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}
