package python

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/blimu-dev/pyclient-gen/pkg/utils"
	"github.com/pkg/errors"
)

// pyArg is an argument with the identifier it is bound to in Python
type pyArg struct {
	ir.Argument
	ident string
}

// method is the rendering state for one generated client method
type method struct {
	key   ir.FunctionKey
	fn    ir.Function
	name  string
	args  []pyArg
	lines []string
}

func (m *method) subject() string {
	return strings.ToUpper(m.key.Method) + " " + m.key.Path
}

func (m *method) emit(level int, format string, args ...any) {
	m.lines = append(m.lines, indent(level)+fmt.Sprintf(format, args...))
}

// renderFunctions renders every function as a method of the client class
func (r *renderer) renderFunctions() ([]string, error) {
	names := newIdentSet()
	var out []string
	for _, key := range r.in.FunctionKeys() {
		m := &method{
			key:  key,
			fn:   r.in.Functions[key],
			name: names.claim(functionName(key)),
		}
		if err := r.renderFunction(m); err != nil {
			return nil, errors.WithMessage(err, m.subject())
		}
		out = append(out, strings.Join(m.lines, "\n")+"\n")
	}
	return out, nil
}

// functionName derives the method name from the HTTP method and path
func functionName(key ir.FunctionKey) string {
	name := utils.ToSnakeCase(key.Method + "_" + key.Path)
	if name == "" {
		return "call"
	}
	return utils.PythonIdentifier(name)
}

func (r *renderer) renderFunction(m *method) error {
	m.args = r.orderArguments(m.fn.Arguments)

	m.lines = append(m.lines, r.signature(m)...)
	m.emit(2, "%s", docstring(m.fn.Docs, 2))

	query, err := r.queryLines(m)
	if err != nil {
		return err
	}
	m.lines = append(m.lines, query...)

	auth, err := r.usesBasicAuth(m)
	if err != nil {
		return err
	}

	codes := m.fn.StatusCodes()
	m.emit(2, "async with self._session.request(")
	m.emit(3, "%s,", pyString(strings.ToUpper(m.key.Method)))
	m.emit(3, "%s,", r.urlTemplate(m))
	if auth {
		m.emit(3, "auth=self._auth,")
	}
	if len(query) > 0 {
		m.emit(3, "params=params,")
	}
	for _, a := range m.args {
		if a.Location == ir.LocationBody {
			m.emit(3, "json=TypeAdapter(%s).dump_python(%s, mode=\"json\", by_alias=True),", r.annotation(a.Type, false), a.ident)
		}
	}
	if len(codes) == 0 {
		m.emit(2, "):")
		m.emit(3, "return None")
		return nil
	}
	m.emit(2, ") as resp:")
	return r.responseBranches(m, codes)
}

// orderArguments puts the body first, then required and then optional
// arguments. Arguments whose location cannot be sent are left out.
func (r *renderer) orderArguments(in []ir.Argument) []pyArg {
	var body, required, optional []ir.Argument
	for _, a := range in {
		switch {
		case a.Location == ir.LocationUnimplemented:
		case a.Location == ir.LocationBody:
			body = append(body, a)
		case a.Type.IsOptional():
			optional = append(optional, a)
		default:
			required = append(required, a)
		}
	}

	reserved := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		reserved = append(reserved, c)
	}
	idents := newIdentSet(moduleNames, methodLocals, reserved, []string{r.opts.ClientName})

	var out []pyArg
	for _, group := range [][]ir.Argument{body, required, optional} {
		for _, a := range group {
			out = append(out, pyArg{Argument: a, ident: idents.claim(utils.PythonIdentifier(a.Name))})
		}
	}
	return out
}

func (r *renderer) signature(m *method) []string {
	ret := r.returnAnnotation(m.fn)
	if len(m.args) == 0 {
		return []string{fmt.Sprintf("%sasync def %s(self) -> %s:", indent(1), m.name, ret)}
	}
	lines := []string{
		fmt.Sprintf("%sasync def %s(", indent(1), m.name),
		indent(2) + "self,",
	}
	for _, a := range m.args {
		line := fmt.Sprintf("%s%s: %s", indent(2), a.ident, r.annotation(a.Type, false))
		if a.Location != ir.LocationBody && a.Type.IsOptional() {
			line += " = None"
		}
		lines = append(lines, line+",")
	}
	return append(lines, fmt.Sprintf("%s) -> %s:", indent(1), ret))
}

// distinctResponseTypes returns each response type once, in status code order
func distinctResponseTypes(fn ir.Function) []ir.Type {
	var out []ir.Type
	for _, code := range fn.StatusCodes() {
		t := fn.Responses[code]
		seen := false
		for _, d := range out {
			if d.Equal(t) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, t)
		}
	}
	return out
}

// isTagged reports whether responses are returned as (status, value) pairs
func isTagged(fn ir.Function) bool {
	return len(distinctResponseTypes(fn)) > 1
}

func (r *renderer) returnAnnotation(fn ir.Function) string {
	distinct := distinctResponseTypes(fn)
	switch len(distinct) {
	case 0:
		return "None"
	case 1:
		return r.annotation(distinct[0], false)
	}
	alts := make([]string, 0, len(fn.Responses))
	for _, code := range fn.StatusCodes() {
		alts = append(alts, fmt.Sprintf("Tuple[Literal[%s], %s]", pyString(code), r.annotation(fn.Responses[code], false)))
	}
	return "Union[" + strings.Join(alts, ", ") + "]"
}

// queryLines builds the params list. It returns nothing when there are no query arguments.
func (r *renderer) queryLines(m *method) ([]string, error) {
	var lines []string
	add := func(level int, format string, args ...any) {
		lines = append(lines, indent(level)+fmt.Sprintf(format, args...))
	}
	for _, a := range m.args {
		if a.Location != ir.LocationQuery {
			continue
		}
		if len(lines) == 0 {
			add(2, "params: List[Tuple[str, str]] = []")
		}
		level := 2
		if a.Type.IsOptional() {
			add(level, "if %s is not None:", a.ident)
			level++
		}
		key := pyString(a.Name)
		inner := a.Type.Unwrap()
		switch {
		case inner.IsScalar():
			add(level, "params.append((%s, %s))", key, queryValue(inner, a.ident))
		case (inner.Kind == ir.KindList || inner.Kind == ir.KindSet) && inner.Elem.IsScalar():
			add(level, "for value in %s:", a.ident)
			add(level+1, "params.append((%s, %s))", key, queryValue(*inner.Elem, "value"))
		default:
			return nil, ir.Unimplementedf("query parameter %q of type %s", a.Name, r.annotation(a.Type, false))
		}
	}
	return lines, nil
}

// queryValue converts a scalar expression to its query string form
func queryValue(t ir.Type, expr string) string {
	switch t.Kind {
	case ir.KindString:
		return expr
	case ir.KindBool:
		return fmt.Sprintf(`"true" if %s else "false"`, expr)
	default:
		return "str(" + expr + ")"
	}
}

// usesBasicAuth reports whether any security requirement of the function
// resolves to basic auth. Names without a resolved scheme are reported, or
// fail generation in strict mode.
func (r *renderer) usesBasicAuth(m *method) (bool, error) {
	auth := false
	for _, name := range m.fn.SecuritySchemes {
		scheme, ok := r.in.SecuritySchemes[name]
		if !ok {
			if r.opts.StrictSecurity {
				return false, ir.Unimplementedf("security scheme %q is not supported", name)
			}
			r.diags.Warnf(diag.UnresolvedSecurityScheme, m.subject(), "security scheme %q is not supported; the call is sent without it", name)
			continue
		}
		if scheme == ir.SecurityBasicAuth {
			auth = true
		}
	}
	return auth, nil
}

// urlTemplate renders the request URL as an f-string. Path placeholders are
// bound to the matching path arguments; unmatched ones stay literal.
func (r *renderer) urlTemplate(m *method) string {
	pathIdents := map[string]string{}
	for _, a := range m.args {
		if a.Location == ir.LocationPath {
			pathIdents[a.Name] = a.ident
		}
	}

	escape := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "{", "{{", "}", "}}")
	path := m.key.Path
	var b strings.Builder
	b.WriteString(`f"{self._base_url}`)
	for len(path) > 0 {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			b.WriteString(escape.Replace(path))
			break
		}
		end := strings.IndexByte(path[open:], '}')
		if end < 0 {
			b.WriteString(escape.Replace(path))
			break
		}
		end += open
		b.WriteString(escape.Replace(path[:open]))
		name := path[open+1 : end]
		if ident, ok := pathIdents[name]; ok {
			b.WriteString("{" + ident + "}")
		} else {
			r.diags.Warnf(diag.SkippedParameter, m.subject(), "path placeholder {%s} has no path parameter and is sent literally", name)
			b.WriteString(escape.Replace(path[open : end+1]))
		}
		path = path[end+1:]
	}
	b.WriteString(`"`)
	return b.String()
}

// statusCondition returns the Python test for a status code key.
// The default response matches unconditionally and returns "".
func statusCondition(code string) (string, error) {
	if code == "default" {
		return "", nil
	}
	if len(code) == 3 {
		if n, err := strconv.Atoi(code); err == nil {
			return fmt.Sprintf("resp.status == %d", n), nil
		}
		if code[0] >= '1' && code[0] <= '5' && strings.EqualFold(code[1:], "XX") {
			return fmt.Sprintf("resp.status // 100 == %c", code[0]), nil
		}
	}
	return "", ir.Unimplementedf("response status %q", code)
}

func (r *renderer) responseBranches(m *method, codes []string) error {
	tagged := isTagged(m.fn)
	for _, code := range codes {
		cond, err := statusCondition(code)
		if err != nil {
			return err
		}
		value := r.parseExpr(m.fn.Responses[code])
		if tagged {
			value = fmt.Sprintf("(%s, %s)", pyString(code), value)
		}
		if cond == "" {
			m.emit(3, "return %s", value)
			return nil
		}
		m.emit(3, "if %s:", cond)
		m.emit(4, "return %s", value)
	}
	m.emit(3, "raise aiohttp.ClientResponseError(")
	m.emit(4, "resp.request_info,")
	m.emit(4, "resp.history,")
	m.emit(4, "status=resp.status,")
	m.emit(4, `message=f"unexpected status {resp.status}",`)
	m.emit(4, "headers=resp.headers,")
	m.emit(3, ")")
	return nil
}

// parseExpr reads and validates the response payload as t
func (r *renderer) parseExpr(t ir.Type) string {
	if t.Kind == ir.KindNone {
		return "None"
	}
	return fmt.Sprintf("TypeAdapter(%s).validate_python(await resp.json(content_type=None))", r.annotation(t, false))
}
