package python

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/blimu-dev/pyclient-gen/pkg/utils"
)

// renderTypes emits one definition per component schema, in name order.
//
// Classes and container aliases come first. Aliases that are a bare reference
// to another schema follow once everything they can point at exists. The last
// pass rebuilds every model so quoted forward references resolve.
func (r *renderer) renderTypes() string {
	var (
		blocks  []string
		bare    []ir.NamedType
		classes []string
	)
	for _, s := range r.in.Schemas {
		name := r.classes[s.Name]
		t := s.Type
		if t.Kind == ir.KindOptional && t.Elem.Kind == ir.KindStruct {
			// nullable objects still render as classes
			t = *t.Elem
		}
		switch t.Kind {
		case ir.KindStruct:
			blocks = append(blocks, r.renderClass(name, *t.Struct))
			classes = append(classes, name)
		case ir.KindRef:
			bare = append(bare, s)
		default:
			blocks = append(blocks, fmt.Sprintf("%s = %s\n", name, r.annotation(t, true)))
		}
	}

	for _, s := range bare {
		blocks = append(blocks, fmt.Sprintf("%s = %s\n", r.classes[s.Name], r.aliasTarget(s.Type.Ref)))
	}

	if len(classes) > 0 {
		var b strings.Builder
		for _, c := range classes {
			b.WriteString(c + ".model_rebuild()\n")
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// aliasTarget follows a chain of bare reference aliases to a name that is
// already bound when the alias is evaluated
func (r *renderer) aliasTarget(ref string) string {
	seen := map[string]bool{}
	for !seen[ref] {
		seen[ref] = true
		var next *ir.NamedType
		for i := range r.in.Schemas {
			if r.in.Schemas[i].Name == ref {
				next = &r.in.Schemas[i]
				break
			}
		}
		if next == nil {
			return r.annotation(ir.RefTo(ref), false)
		}
		if next.Type.Kind != ir.KindRef {
			return r.classes[ref]
		}
		ref = next.Type.Ref
	}
	// a cycle of aliases has no concrete type
	return "Any"
}

func (r *renderer) renderClass(name string, st ir.Struct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s(_BaseModel):\n", name)

	if st.Docs != "" {
		b.WriteString(indent(1) + docstring(st.Docs, 1) + "\n")
		if len(st.Fields) > 0 {
			b.WriteString("\n")
		}
	}
	if len(st.Fields) == 0 {
		if st.Docs == "" {
			b.WriteString(indent(1) + "pass\n")
		}
		return b.String()
	}

	// field names live in the class body, so they must not shadow anything
	// an annotation or Field(...) call refers to
	classes := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		classes = append(classes, c)
	}
	idents := newIdentSet([]string{"model_config"}, moduleNames, annotationBuiltins, classes)
	for _, fieldName := range st.FieldNames() {
		f := st.Fields[fieldName]
		ident := idents.claim(utils.PythonFieldName(fieldName))

		args := []string{"..."}
		if f.Type.IsOptional() {
			args[0] = "None"
		}
		if ident != fieldName {
			args = append(args, "alias="+pyString(fieldName))
		}
		if f.Deprecated {
			args = append(args, "deprecated=True")
		}
		if f.Docs != "" {
			args = append(args, "description="+pyString(f.Docs))
		}
		fmt.Fprintf(&b, "%s%s: %s = Field(%s)\n", indent(1), ident, r.annotation(f.Type, true), strings.Join(args, ", "))
	}
	return b.String()
}
