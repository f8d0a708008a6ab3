// Package entry defines the core data model for bibliographic entries.
package entry

import "fmt"

// Entry is one bibliographic record moving through the parse, normalize
// and render stages. It is created once by a parser, mutated in place by
// the normalization pipeline, and consumed once by the renderer.
type Entry struct {
	// Raw is the source text this entry was parsed from.
	Raw string

	// Type is the lower-cased BibTeX entry type (article, book, ...).
	Type string

	// Key is the citation key, declared in structured input or
	// synthesized from author and year in natural input.
	Key string

	// Fields maps lower-cased field names to values. Values are
	// conventionally brace-wrapped to protect internal capitalization;
	// values parsed from bare (unbraced) input stay raw.
	Fields map[string]string

	// Failed reports that no parser could classify the entry. When set,
	// Fields is nil and the entry skips normalization entirely.
	Failed bool

	// Diagnostics collects human-readable notes about corrections made
	// and problems detected. Append-only; never pruned.
	Diagnostics []string
}

// Diag records a diagnostic note for the entry.
func (e *Entry) Diag(format string, args ...any) {
	e.Diagnostics = append(e.Diagnostics, fmt.Sprintf(format, args...))
}

// Get returns the value of a field, or "" if absent.
func (e *Entry) Get(field string) string {
	return e.Fields[field]
}

// Has reports whether the field is present at all, even with an empty or
// error-marker value.
func (e *Entry) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}
