package python

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/blimu-dev/pyclient-gen/pkg/utils"
)

// indentUnit is one level of Python indentation
const indentUnit = "    "

// indent returns the leading whitespace for a nesting level
func indent(level int) string {
	return strings.Repeat(indentUnit, level)
}

// pyString renders s as a double-quoted Python string literal.
// Go's escape sequences are a subset of Python's.
func pyString(s string) string {
	return strconv.Quote(s)
}

// docstring renders doc as a triple-quoted literal whose continuation lines
// are indented to level. An empty doc renders as an empty docstring.
func docstring(doc string, level int) string {
	doc = strings.TrimSpace(strings.ReplaceAll(doc, "\r\n", "\n"))
	if doc == "" {
		return `""""""`
	}
	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	if strings.HasSuffix(doc, `"`) {
		// a quote right before the closing delimiter must be escaped,
		// unless an odd run of backslashes already does it
		body := doc[:len(doc)-1]
		slashes := len(body) - len(strings.TrimRight(body, `\`))
		if slashes%2 == 0 {
			doc = body + `\"`
		}
	}

	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		return `"""` + doc + `"""`
	}
	var b strings.Builder
	b.WriteString(`"""`)
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if i > 0 {
			b.WriteString("\n")
			if line != "" {
				b.WriteString(indent(level))
			}
		}
		b.WriteString(line)
	}
	b.WriteString("\n" + indent(level) + `"""`)
	return b.String()
}

// moduleNames are bound at module level by the imports and skeleton
var moduleNames = utils.PythonModuleNames

// annotationBuiltins are the builtin types annotations refer to
var annotationBuiltins = []string{"str", "int", "float", "bool"}

// methodLocals are names used inside generated method bodies
var methodLocals = []string{"params", "resp", "value"}

// identSet hands out identifiers that do not clash with each other or a reserved set
type identSet map[string]struct{}

func newIdentSet(reserved ...[]string) identSet {
	s := identSet{}
	for _, names := range reserved {
		for _, n := range names {
			s[n] = struct{}{}
		}
	}
	return s
}

// claim returns candidate, or candidate with trailing underscores when it is taken
func (s identSet) claim(candidate string) string {
	for {
		if _, taken := s[candidate]; !taken {
			s[candidate] = struct{}{}
			return candidate
		}
		candidate += "_"
	}
}

// classNames assigns a Python class name to every component schema
func classNames(schemas []ir.NamedType, clientName string) map[string]string {
	used := newIdentSet(moduleNames, []string{clientName})
	out := make(map[string]string, len(schemas))
	for _, s := range schemas {
		out[s.Name] = used.claim(utils.PythonClassName(s.Name))
	}
	return out
}

// annotator renders ir.Types as Python annotations
type annotator struct {
	classes map[string]string
	diags   *diag.Collector
}

// annotation renders t. With quoteRefs set, references to component schemas
// are written as strings so they may point at classes defined later.
// References to schemas that were not emitted fall back to Any.
func (a annotator) annotation(t ir.Type, quoteRefs bool) string {
	switch t.Kind {
	case ir.KindString:
		return "str"
	case ir.KindInteger:
		return "int"
	case ir.KindFloat:
		return "float"
	case ir.KindBool:
		return "bool"
	case ir.KindNone:
		return "None"
	case ir.KindOptional:
		return "Optional[" + a.annotation(*t.Elem, quoteRefs) + "]"
	case ir.KindList:
		return "List[" + a.annotation(*t.Elem, quoteRefs) + "]"
	case ir.KindSet:
		return "Set[" + a.annotation(*t.Elem, quoteRefs) + "]"
	case ir.KindStruct:
		return "Dict[str, Any]"
	case ir.KindRef:
		name, ok := a.classes[t.Ref]
		if !ok {
			if !a.diags.Has(diag.UnresolvedReference, t.Ref) {
				a.diags.Warnf(diag.UnresolvedReference, t.Ref, "no generated type for this reference; using Any")
			}
			return "Any"
		}
		if quoteRefs {
			return pyString(name)
		}
		return name
	default:
		return "Any"
	}
}
