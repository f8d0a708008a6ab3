package normalize

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

var (
	pageCount = regexp.MustCompile(`(?i)^\d+ *(?:pp\.?|pages)$`)

	// dashRun normalizes every run of hyphens or dashes, with optional
	// surrounding space, to the BibTeX range separator.
	dashRun = regexp.MustCompile(`\s*[-‒–—−]+\s*`)

	listSep = regexp.MustCompile(`\s*[;,]\s*`)

	pagePrefix = regexp.MustCompile(`(?i)^ *(?:pp\.?|p\.|pages?) *`)

	pageUnit      = `(?:[A-Za-z]?[0-9]+|[ivxlcdm]+|[IVXLCDM]+)`
	pageItem      = pageUnit + `(?:--` + pageUnit + `)?`
	standardPages = regexp.MustCompile(`^` + pageItem + `(?:, ` + pageItem + `)*$`)

	romanRange   = regexp.MustCompile(`^[IVXLCDM]+--[IVXLCDM]+$`)
	rangeCapture = regexp.MustCompile(`^(` + pageUnit + `)--(` + pageUnit + `)$`)
)

// checkPages canonicalizes the pages field: the alias "page" is
// adopted, page counts and placeholder values are dropped, every dash
// variant becomes "--", list separators become ", ", and anything still
// non-standard is diagnosed rather than altered further.
func (p *pipeline) checkPages() {
	f := p.e.Fields

	if v, ok := f["page"]; ok {
		if _, exists := f["pages"]; !exists {
			f["pages"] = v
			delete(f, "page")
			p.diag("remapped page to pages")
		}
	}

	raw, ok := f["pages"]
	if !ok || strings.HasPrefix(raw, entry.ErrorMarkerPrefix) {
		return
	}
	pages := strings.TrimSpace(entry.TrimBraces(raw))
	pages = pagePrefix.ReplaceAllString(pages, "")

	if pages == "" || strings.EqualFold(pages, "none") {
		delete(f, "pages")
		p.diag("removed empty pages value")
		return
	}
	if pageCount.MatchString(pages) {
		delete(f, "pages")
		p.diag("removed page count masquerading as pages: %s", pages)
		return
	}

	pages = dashRun.ReplaceAllString(pages, "--")
	pages = listSep.ReplaceAllString(pages, ", ")
	if m := grammar.ArticleID.FindStringSubmatch(pages); m != nil {
		pages = m[1]
		p.diag("reduced article id to %s", pages)
	}

	if !standardPages.MatchString(pages) {
		p.diag("non-standard pages: %s", pages)
	}
	if romanRange.MatchString(pages) {
		p.diag("capital Roman numerals in pages: %s", pages)
	}
	if m := rangeCapture.FindStringSubmatch(pages); m != nil && m[1] == m[2] {
		p.diag("degenerate page range: %s", pages)
	}

	f["pages"] = entry.AddBraces(pages)
}
