// Package parse turns input text into entries: an explicit parser for
// structured BibTeX records and a grammar cascade for free-text
// reference lines.
package parse

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

var (
	wsRun         = regexp.MustCompile(`\s+`)
	trailingComma = regexp.MustCompile(`,\s*$`)

	// fieldBoundary is the line-splitting heuristic: a closing brace
	// followed by comma and newline. A line holding a braced value plus
	// further fields will mis-split; upstream formatting rules that out.
	fieldBoundary = regexp.MustCompile(`\}[ \t]*,[ \t]*\n\s*`)

	bracedValue = regexp.MustCompile(`^\s*(\w+)\s*=\s*\{\s*(.*?)\s*\}\s*,?\s*$`)
	quotedValue = regexp.MustCompile(`^\s*(\w+)\s*=\s*"\s*([^"]*?)\s*"\s*,?\s*(.*)$`)
	bareValue   = regexp.MustCompile(`^\s*(\w+)\s*=\s*([^,{}"]*)\s*,?\s*(.*)$`)
)

// BibTeX parses one structured entry whose leading "@" has already been
// stripped. Field values may be braced, quoted or bare; quoted values
// must not contain quote marks, even escaped, and must not span lines
// (a documented limitation, not an inferred escaping rule). The key is
// registered with reg and a diagnostic is recorded for a duplicate.
func BibTeX(s string, reg *entry.Registry) *entry.Entry {
	e := &entry.Entry{Raw: s}

	m := grammar.TypeKeyFields.FindStringSubmatch(s)
	if m == nil {
		e.Failed = true
		return e
	}
	e.Type = strings.ToLower(m[1])
	e.Key = m[2]

	remainder := strings.TrimSpace(m[3])
	remainder = trailingComma.ReplaceAllString(remainder, "")

	fields := make(map[string]string)
	for _, line := range splitFieldLines(remainder) {
		line = wsRun.ReplaceAllString(strings.TrimSpace(line), " ")
		parseFieldLine(fields, line)
	}

	if len(fields) == 0 {
		e.Diag("no fields parsed from entry")
		e.Failed = true
	} else {
		e.Fields = fields
	}

	if reg.Register(e.Key) {
		e.Diag("duplicate key %s", e.Key)
	}
	return e
}

// splitFieldLines splits the field body on the boundary heuristic,
// keeping the closing brace with the preceding line.
func splitFieldLines(s string) []string {
	var lines []string
	last := 0
	for _, loc := range fieldBoundary.FindAllStringIndex(s, -1) {
		lines = append(lines, s[last:loc[0]+1])
		last = loc[1]
	}
	return append(lines, s[last:])
}

// parseFieldLine extracts field/value pairs from one line, trying a
// braced value, then a quoted value, then a bare value, consuming
// matched text until the line is exhausted. A braced value is terminal
// for its line.
func parseFieldLine(fields map[string]string, line string) {
	for line != "" {
		if m := bracedValue.FindStringSubmatch(line); m != nil {
			field, value := strings.ToLower(m[1]), m[2]
			if value != "" {
				fields[field] = entry.AddBraces(value)
			}
			return
		}

		if m := quotedValue.FindStringSubmatch(line); m != nil {
			field, value, rest := strings.ToLower(m[1]), m[2], m[3]
			if value != "" {
				fields[field] = entry.AddBraces(value)
			}
			if rest == "" {
				return
			}
			line = rest
			continue
		}

		if m := bareValue.FindStringSubmatch(line); m != nil {
			field, value, rest := strings.ToLower(m[1]), strings.TrimSpace(m[2]), m[3]
			if value != "" {
				fields[field] = value
			}
			if rest == "" {
				return
			}
			line = rest
			continue
		}

		return
	}
}
