package normalize

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

// titleFields are the fields subject to bibliography-style
// case-folding, whose capitalized words need brace protection.
var titleFields = []string{
	"title", "booktitle", "subtitle", "maintitle", "mainsubtitle", "booksubtitle",
}

var bareCapital = regexp.MustCompile(` ([A-Z]) `)

// wrapMatches braces every match of re in s that is not already braced.
// Checking the surrounding characters keeps the rewrite idempotent over
// repeated runs.
func wrapMatches(s string, re *regexp.Regexp) string {
	locs := re.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(s[last:start])
		if start > 0 && s[start-1] == '{' && end < len(s) && s[end] == '}' {
			b.WriteString(s[start:end])
		} else {
			b.WriteString("{")
			b.WriteString(s[start:end])
			b.WriteString("}")
		}
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// checkDecapitalization protects capitalization that a bibliography
// style would otherwise fold away: the subtitle's first letter,
// CamelCase tokens, single-letter words, proper nouns, and whole
// proceedings titles. German entries keep their capitalization and are
// skipped.
func (p *pipeline) checkDecapitalization() {
	switch entry.TrimBraces(p.e.Get("langid")) {
	case "german", "ngerman", "de":
		return
	}

	for _, field := range titleFields {
		braced := p.e.Get(field)
		if !entry.IsRealValue(braced) {
			continue
		}
		original := entry.TrimBraces(braced)
		protected := original

		protected = grammar.MainTitle.ReplaceAllStringFunc(protected, func(s string) string {
			m := grammar.MainTitle.FindStringSubmatch(s)
			return m[1] + " " + entry.AddBraces(strings.ToUpper(m[2]))
		})
		protected = wrapMatches(protected, grammar.CamelCase)
		protected = bareCapital.ReplaceAllString(protected, " {$1} ")
		protected = wrapMatches(protected, p.lex.ProperNounPattern())

		if grammar.Proceedings.MatchString(protected) && !isWrapped(protected) {
			protected = entry.AddBraces(protected)
			p.diag("protected proceedings title in %s", field)
		}
		if grammar.ProceedingsLower.MatchString(protected) {
			p.diag("proceedings name in %s not capitalized: %s", field, protected)
		}

		if protected != original {
			p.e.Fields[field] = entry.AddBraces(protected)
		}
	}
}

func isWrapped(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}
