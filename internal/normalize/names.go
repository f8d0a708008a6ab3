package normalize

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/delatex"
	"github.com/lspress/bibnorm/internal/entry"
)

var (
	gluedInitials = regexp.MustCompile(`([A-Z])\.([A-Z])`)
	bareInitial   = regexp.MustCompile(` ([A-Z]) `)
	finalInitial  = regexp.MustCompile(` ([A-Z])\}$`)

	doubleInitial      = regexp.MustCompile(` [A-Z][A-Z] `)
	finalDoubleInitial = regexp.MustCompile(` [A-Z][A-Z]\}$`)
)

// checkInitials puts a period after bare initials in name fields. The
// bare-initial rewrite loops to a fixed point because consecutive
// initials share their separating space.
func (p *pipeline) checkInitials() {
	for _, field := range nameFields {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}

		value = gluedInitials.ReplaceAllString(value, "$1. $2")
		for {
			next := bareInitial.ReplaceAllString(value, " $1. ")
			if next == value {
				break
			}
			value = next
		}
		value = finalInitial.ReplaceAllString(value, " $1.}")

		if doubleInitial.MatchString(value) || finalDoubleInitial.MatchString(value) {
			p.diag("possible glued initials in %s: %s", field, value)
		}
		p.e.Fields[field] = value
	}
}

// ampersandFields are the non-name fields where a bare ampersand must be
// escaped for LaTeX rather than spelled out.
var ampersandFields = []string{
	"address", "publisher", "school", "institution", "journal", "series",
	"title", "booktitle", "maintitle", "subtitle", "volume", "number",
	"note", "howpublished", "addendum",
}

// hasUnescapedAmp reports a bare "&" not preceded by a backslash.
func hasUnescapedAmp(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '&' && (i == 0 || s[i-1] != '\\') {
			return true
		}
	}
	return false
}

// checkAmpersand spells out "&" as "and" in name fields and escapes it
// in text fields; a remaining bare ampersand is diagnosed.
func (p *pipeline) checkAmpersand() {
	for _, field := range nameFields {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}
		value = strings.ReplaceAll(value, ` \& `, " and ")
		value = strings.ReplaceAll(value, " & ", " and ")
		p.e.Fields[field] = value
		if hasUnescapedAmp(value) {
			p.diag("unescaped ampersand in %s: %s", field, value)
		}
	}
	for _, field := range ampersandFields {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}
		value = strings.ReplaceAll(value, " & ", ` \& `)
		p.e.Fields[field] = value
		if hasUnescapedAmp(value) {
			p.diag("unescaped ampersand in %s: %s", field, value)
		}
	}
}

var etAl = regexp.MustCompile(` et\.? al\.?`)

// checkEtAl rejects a literal "et al" in a name field: every contributor
// must be listed, so the phrase is replaced by an in-band error marker.
func (p *pipeline) checkEtAl() {
	for _, field := range nameFields {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}
		if !etAl.MatchString(value) {
			continue
		}
		p.e.Fields[field] = etAl.ReplaceAllString(value, ` \biberror{et al}`)
		p.diag("literal et al in %s; list all contributors", field)
	}
}

// checkAnd diagnoses name lists that separate contributors with commas
// instead of "and": two or more commas beyond the surname separators
// suggest a comma-separated list.
func (p *pipeline) checkAnd() {
	for _, field := range nameFields {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}
		commas := strings.Count(value, ",")
		ands := strings.Count(value, " and ")
		if commas > ands+1 {
			p.diag("possible comma-separated name list in %s: %s", field, value)
		}
	}
}

// addSortName derives a diacritic-free sortname from the given name, or
// from the author field when name is empty. Gated on the SortNames
// option.
func (p *pipeline) addSortName(name string) {
	if !p.opts.SortNames {
		return
	}
	if name == "" {
		name = p.e.Get("author")
	}
	if !entry.IsRealValue(name) {
		return
	}
	plain := delatex.Dediacriticize(entry.TrimBraces(name))
	p.e.Fields["sortname"] = entry.AddBraces(plain)
}
