package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// pythonReserved holds Python keywords, soft keywords we never want as names,
// and "self", which every generated method already takes.
var pythonReserved = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {}, "def": {},
	"del": {}, "elif": {}, "else": {}, "except": {}, "finally": {}, "for": {},
	"from": {}, "global": {}, "if": {}, "import": {}, "in": {}, "is": {},
	"lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {}, "raise": {},
	"return": {}, "try": {}, "while": {}, "with": {}, "yield": {}, "self": {},
}

// PythonModuleNames are bound at module level by the generated client's
// imports and base model
var PythonModuleNames = []string{
	"aiohttp", "Any", "Dict", "List", "Literal", "Optional", "Set", "Tuple", "Union",
	"BaseModel", "ConfigDict", "Field", "TypeAdapter", "_BaseModel",
}

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitCamelCase splits a camelCase or PascalCase string into words
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(runes[i-1]) {
				isNewWord = true
			} else if i < len(runes)-1 && !isUppercase(runes[i+1]) {
				// "XMLHttp" -> "XML", "Http"
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Words splits s on non-alphanumerics and camelCase boundaries after folding accents
func Words(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = RemoveAccents(s)

	var words []string
	for _, part := range nonAlnum.Split(s, -1) {
		if part == "" {
			continue
		}
		words = append(words, SplitCamelCase(part)...)
	}
	return words
}

// ToSnakeCase converts a string to snake_case
func ToSnakeCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "_")
}

// IsPythonIdentifier reports whether s can be used verbatim as a Python name
func IsPythonIdentifier(s string) bool {
	if !identifier.MatchString(s) {
		return false
	}
	_, reserved := pythonReserved[s]
	return !reserved
}

// PythonIdentifier returns s when it is already a usable Python name,
// otherwise a snake_case form of it. Reserved words get a trailing underscore.
func PythonIdentifier(s string) string {
	if IsPythonIdentifier(s) {
		return s
	}
	return fixIdentifier(ToSnakeCase(s))
}

// PythonFieldName is PythonIdentifier without leading underscores, which
// pydantic keeps for private attributes
func PythonFieldName(s string) string {
	name := strings.TrimLeft(PythonIdentifier(s), "_")
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "field_" + name
	}
	return PythonIdentifier(name)
}

// PythonClassName is PythonIdentifier with a PascalCase fallback
func PythonClassName(s string) string {
	if IsPythonIdentifier(s) {
		return s
	}
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(strings.ToUpper(w[:1]) + strings.ToLower(w[1:]))
	}
	return fixIdentifier(b.String())
}

func fixIdentifier(out string) string {
	if out == "" {
		out = "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if _, reserved := pythonReserved[out]; reserved {
		out += "_"
	}
	return out
}
