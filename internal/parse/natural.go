package parse

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

// naturalRule is one step of the recognition cascade: an optional gate,
// a grammar, the entry type a match yields, and the extraction from the
// named captures. extract may reject a syntactic match by returning
// false, sending the input on to later rules.
type naturalRule struct {
	typ     string
	gate    func(s string) bool
	re      *regexp.Regexp
	extract func(s string, m map[string]string) (map[string]string, bool)
}

var naturalRules = []naturalRule{
	{typ: "mastersthesis", re: grammar.MastersThesis, extract: extractThesis},
	{typ: "phdthesis", re: grammar.PhDThesis, extract: extractThesis},
	{typ: "incollection", gate: hasEditorMarker, re: grammar.InCollection, extract: extractInCollection},
	{typ: "incollection", gate: hasEditorMarker, re: grammar.InCollectionParens, extract: extractInCollection},
	{typ: "incollection", gate: hasEditorMarker, re: grammar.InCollectionMissing, extract: extractInCollectionMissing},
	{typ: "article", re: grammar.Article, extract: extractArticle},
	{typ: "book", re: grammar.Book, extract: extractBook},
	{typ: "misc", re: grammar.Misc, extract: extractMisc},
}

// Natural parses a free-text reference line by trying each grammar of
// the cascade in priority order. The first rule whose grammar matches
// and whose extraction accepts wins and fixes the entry type. The
// synthesized key is registered with reg; a duplicate is diagnosed, not
// rejected.
func Natural(s string, reg *entry.Registry) *entry.Entry {
	s = strings.Join(strings.Fields(s), " ")
	e := &entry.Entry{Raw: s, Type: "misc"}
	if s == "" {
		e.Failed = true
		return e
	}

	var fields map[string]string
	for _, rule := range naturalRules {
		if rule.gate != nil && !rule.gate(s) {
			continue
		}
		m := grammar.Captures(rule.re, s)
		if m == nil {
			continue
		}
		d, ok := rule.extract(s, m)
		if !ok {
			continue
		}
		e.Type = rule.typ
		fields = d
		break
	}
	if fields == nil {
		e.Failed = true
		return e
	}

	finish(e, fields)
	if reg.Register(e.Key) {
		e.Diag("duplicate key %s", e.Key)
	}
	return e
}

func hasEditorMarker(s string) bool {
	return grammar.EditorMarker.MatchString(s)
}

// base seeds the field map with the captures every grammar shares.
func base(m map[string]string) map[string]string {
	return map[string]string{
		"author":    m["author"],
		"year":      m["year"],
		"extrayear": m["extrayear"],
		"title":     m["title"],
	}
}

func extractThesis(s string, m map[string]string) (map[string]string, bool) {
	d := base(m)
	d["endmark"] = m["endmark"]
	d["note"] = m["note"]
	address, school := SplitPubAddr(m["pubtail"])
	d["address"] = address
	d["school"] = school
	return d, true
}

func extractInCollection(s string, m map[string]string) (map[string]string, bool) {
	d := base(m)
	d["endmark"] = m["endmark"]
	d["editor"] = m["editor"]
	d["booktitle"] = cleanBooktitle(m["booktitle"])
	d["endmark1"] = m["endmark1"]
	d["pages"] = m["pages"]

	tail := m["pubtail"]
	tail, url := extractURL(tail)
	tail, doi := extractDOI(tail)
	d["url"] = url
	d["doi"] = doi
	address, publisher := SplitPubAddr(tail)
	d["address"] = address
	d["publisher"] = strings.TrimRight(publisher, " .")
	return d, true
}

func extractInCollectionMissing(s string, m map[string]string) (map[string]string, bool) {
	d := base(m)
	d["endmark"] = m["endmark"]
	d["editor"] = m["editor"]

	tail := cleanBooktitle(m["booktitle"])
	tail, url := extractURL(tail)
	tail, doi := extractDOI(tail)
	d["url"] = url
	d["doi"] = doi
	if addr, pub, rest, em, ok := extractPubAddr(tail); ok {
		d["address"] = addr
		d["publisher"] = pub
		tail = rest
		if em == "!" || em == "?" {
			tail += em
		}
	}
	d["booktitle"] = tail
	return d, true
}

func extractArticle(s string, m map[string]string) (map[string]string, bool) {
	d := base(m)
	d["endmark"] = m["endmark"]
	d["journal"] = m["journal"]

	volume := first(m["volumeParen"], m["volumeSep"], m["volumeOnly"])
	number := first(m["numberParen"], m["numberSep"])
	pages := m["pages"]
	note := m["note"]

	d["volume"] = volume
	if number != "" {
		d["number"] = number
	}
	switch {
	case pages != "":
		d["pages"] = pages
	case number != "" && hyphenIn(number) != "":
		// No explicit pages and a range-shaped number: either a joint
		// issue ("3-4") or pages mistaken for an issue number.
		extracted, cleaned := pagesFromNote(note)
		joint := isJointIssue(number, hyphenIn(number))
		switch {
		case joint && extracted != "":
			d["pages"] = extracted
			note = cleaned
		case joint:
			d["pages"] = number
			delete(d, "number")
		case extracted != "":
			d["pages"] = number + ", " + extracted
			note = cleaned
		default:
			d["pages"] = number
			delete(d, "number")
		}
	}
	d["note"] = note
	return d, true
}

// extractBook rejects a syntactic match lacking both an editor flag and
// an "address: publisher" tail. The Book grammar is so permissive that
// without this gate nearly any line with a year would become a book.
func extractBook(s string, m map[string]string) (map[string]string, bool) {
	if m["ed"] == "" && !hasPubAddr(s) {
		return nil, false
	}
	d := base(m)
	if m["ed"] != "" {
		d["editor"] = m["author"]
		delete(d, "author")
	}

	tail := m["title"]
	tail, url := extractURL(tail)
	tail, doi := extractDOI(tail)
	d["url"] = url
	d["doi"] = doi
	if addr, pub, rest, em, ok := extractPubAddr(tail); ok {
		d["address"] = addr
		d["publisher"] = pub
		tail = rest
		if em == "!" || em == "?" {
			tail += em
		}
	}
	if title, series, number, ok := extractSeriesNumber(tail); ok {
		d["series"] = series
		d["number"] = number
		tail = title
	}
	d["title"] = tail
	return d, true
}

func extractMisc(s string, m map[string]string) (map[string]string, bool) {
	d := base(m)
	d["endmark"] = m["endmark"]
	d["note"] = m["note"]
	return d, true
}

// finish applies the shared post-extraction steps and installs the
// field map on the entry.
func finish(e *entry.Entry, d map[string]string) {
	// Identifiers hiding at the end of a note.
	if note := d["note"]; strings.TrimSpace(note) != "" {
		note, url := extractURL(note)
		note, doi := extractDOI(note)
		if url != "" {
			d["url"] = url
		}
		if doi != "" {
			d["doi"] = doi
		}
		d["note"] = strings.Trim(note, " .")
	}

	// Sentence-final ? and ! belong to the title; a plain period or the
	// comma the grammar admitted do not.
	if em := d["endmark"]; em == "?" || em == "!" {
		d["title"] += em
	}
	delete(d, "endmark")
	if em := d["endmark1"]; em == "?" || em == "!" {
		d["booktitle"] += em
	}
	delete(d, "endmark1")

	for _, t := range []string{"author", "editor"} {
		if v := d[t]; v != "" {
			d[t] = strings.ReplaceAll(v, " &", " and")
		}
	}

	if bt := d["booktitle"]; bt != "" {
		if title, series, number, ok := extractSeriesNumber(bt); ok {
			d["booktitle"] = title
			d["series"] = series
			d["number"] = number
		}
	}

	e.Key = synthesizeKey(d)
	cleanAndBrace(d)
	e.Fields = d
}

// synthesizeKey builds the citation key from contributor surnames and
// year: first surname, "EtAl" for three or more contributors, the second
// surname appended for exactly two, then the four-digit year with any
// disambiguating letter, or 9999 when no year was found.
func synthesizeKey(d map[string]string) string {
	creator := ""
	creatorPart := "Anonymous"
	if author := d["author"]; author != "" {
		creator = author
		creatorPart = strings.ReplaceAll(strings.SplitN(author, ",", 2)[0], " ", "")
	} else if editor := d["editor"]; editor != "" {
		creator = editor
		first := strings.SplitN(editor, ",", 2)[0]
		creatorPart = strings.SplitN(first, " ", 2)[0]
	}

	contributors := 1 + strings.Count(creator, " and ") + strings.Count(creator, "&")
	switch {
	case contributors > 2:
		creatorPart += "EtAl"
	case contributors == 2:
		parts := strings.Split(creator, " and ")
		second := strings.TrimSpace(parts[len(parts)-1])
		switch {
		case strings.Contains(second, ","):
			creatorPart += strings.SplitN(second, ",", 2)[0]
		case strings.Contains(second, " "):
			tokens := strings.Split(second, " ")
			creatorPart += tokens[len(tokens)-1]
		default:
			creatorPart += second
		}
	}

	yearPart := "9999"
	if year := d["year"]; year != "" {
		if len(year) > 4 {
			year = year[:4]
		}
		yearPart = year + d["extrayear"]
	}
	delete(d, "extrayear")

	return creatorPart + yearPart
}

// cleanAndBrace collapses whitespace, drops empty fields and wraps the
// survivors in braces.
func cleanAndBrace(d map[string]string) {
	for k, v := range d {
		cleaned := strings.Join(strings.Fields(v), " ")
		if cleaned == "" {
			delete(d, k)
			continue
		}
		d[k] = entry.AddBraces(cleaned)
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
