// Package render serializes entries as canonical BibTeX.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
)

// excludedFields never appear in rendered output: reference-manager
// bookkeeping, presentation metadata, and opt-prefixed leftovers.
var excludedFields = map[string]bool{
	"abstract":      true,
	"language":      true,
	"date-added":    true,
	"date-modified": true,
	"rating":        true,
	"keywords":      true,
	"issn":          true,
	"timestamp":     true,
	"owner":         true,
	"optannote":     true,
	"optkey":        true,
	"optmonth":      true,
	"optnumber":     true,
	"url_checked":   true,
	"optaddress":    true,
	"eprinttype":    true,
	"bdsk-file-1":   true,
	"bdsk-file-2":   true,
	"bdsk-file-3":   true,
	"bdsk-url-1":    true,
	"bdsk-url-2":    true,
	"bdsk-url-3":    true,
}

// Excluded reports whether a field is dropped from rendered output.
func Excluded(field string) bool {
	return excludedFields[field]
}

// Entry renders e as one BibTeX entry, fields in alphabetical order,
// one per line. Failed entries render as the empty string; their raw
// text is the caller's to preserve.
func Entry(e *entry.Entry) string {
	if e.Failed {
		return ""
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		if !excludedFields[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
	for i, name := range names {
		b.WriteString("\t")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(e.Fields[name])
		if i < len(names)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")

	// A value ending in a comma would double the field separator.
	return strings.ReplaceAll(b.String(), ",,", ",")
}
