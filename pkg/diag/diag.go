// Package diag collects non-fatal problems found while resolving a document.
package diag

import "fmt"

// Kind is a short machine-readable category for a Diagnostic
type Kind string

const (
	UnsupportedSecurityScheme Kind = "unsupported-security-scheme"
	UnresolvedSecurityScheme  Kind = "unresolved-security-scheme"
	SkippedSchema             Kind = "skipped-schema"
	SkippedParameter          Kind = "skipped-parameter"
	UnimplementedLocation     Kind = "unimplemented-location"
	SkippedResponse           Kind = "skipped-response"
	UnresolvedReference       Kind = "unresolved-reference"
)

// Diagnostic is one warning about a document node that was skipped or degraded
type Diagnostic struct {
	Kind Kind
	// Subject names the node, e.g. a scheme name or "GET /pets"
	Subject string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Subject, d.Message)
}

// Collector accumulates diagnostics in the order they were reported.
// The zero value is ready to use.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Warnf records a diagnostic
func (c *Collector) Warnf(kind Kind, subject, format string, args ...any) {
	c.items = append(c.items, Diagnostic{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns a copy of everything recorded so far
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Has reports whether a diagnostic of kind was recorded for subject
func (c *Collector) Has(kind Kind, subject string) bool {
	for _, d := range c.items {
		if d.Kind == kind && d.Subject == subject {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics recorded
func (c *Collector) Len() int {
	return len(c.items)
}
