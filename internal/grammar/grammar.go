// Package grammar holds the regular-expression catalog for recognizing
// bibliographic entries: named sub-patterns composed into one grammar per
// entry shape, plus auxiliary extraction patterns for identifiers, page
// ranges and volume/number combinations.
//
// Each whole-entry grammar binds a fixed named-capture vocabulary
// (author, year, extrayear, title, endmark, ...). An unmatched optional
// group is a valid outcome, never an error.
package grammar

import "regexp"

// Named sub-patterns. The entry grammars below are composed from these.
const (
	author  = `(?P<author>.*?)`
	year    = `\(? *(?P<year>[12][0-9]{3})(?P<extrayear>[a-z]?) *\)?`
	titleG  = `(?P<title>.+)`
	titleNE = `(?P<title>.+?)`
	titleO  = `(?P<title>.*?)`

	// endmark classes: the looser one admits a comma so that natural
	// references with "Title, Journal ..." still split.
	endmark  = `(?P<endmark>[.!?,])`
	endmark1 = `(?P<endmark1>[.!?,])`

	editor    = `(?P<editor>.+)`
	ed        = `\([Ee]ds?\.?\)`
	edFlag    = `(?P<ed>` + ed + `)?`
	booktitle = `(?P<booktitle>.+)`
	journal   = `(?P<journal>[^a-z].+?)`
	note      = `(?P<note>.*)`

	maThesis  = `\(?(MA|Master's|Masters|Master|M\. ?A\.) [Tt]hesis\)?`
	phdThesis = `\(?([Dd]octoral|PhD|Ph\.D\.)? ?([Tt]hesis|[Dd]issertation)\)?`
	pword     = `(?:pp\.?|p\.?|pages|Page[s]?)\s*`

	// Page ranges accept Arabic numerals, lower or upper Roman numerals
	// and a 1-2 letter prefix, joined by hyphen, en dash or em dash.
	pagesPat = `(?P<pages>[A-Za-z]?[0-9ivxlcIXVLC]+(?: *[-–—]+ *[A-Za-z]?[0-9ivxlcIVXLC]+)?)`

	roman  = `[ivxlcdmIVXLCDM]+`
	arabic = `[A-Za-z]{0,2}[0-9]+`

	// joint admits a small range like "2-4": a joint issue number is
	// textually ambiguous with a page range in the same position.
	joint = `(?:` + arabic + `|` + roman + `)(?:[-–—/]` + arabic + `|` + roman + `)?`

	// Three volume/number shapes with distinct capture names, so the
	// consumer can tell which shape matched without re-parsing.
	volumeNumber = `(?:` +
		`(?P<volumeParen>` + joint + `) *\((?P<numberParen>` + joint + `)\)` +
		`|` +
		`(?P<volumeSep>` + joint + `)[ ,:;]+(?:no\.|number|num\.|#)? *(?P<numberSep>` + joint + `)` +
		`|` +
		`(?P<volumeOnly>` + joint + `)` +
		`)`

	// pubTail captures the trailing "address: publisher" region as one
	// group; parse.SplitPubAddr finds the split colon, since a scheme
	// colon (http://) must never split. Go's regexp has no lookahead, so
	// the split lives in code rather than in the pattern.
	pubTail = `(?P<pubtail>.+)`
)

// Whole-entry grammars, one per recognized shape. The natural-text parser
// tries these in a fixed priority order; composition mirrors the
// sub-pattern vocabulary above.
var (
	MastersThesis = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleO + endmark + ` +` + pubTail + `\. *` + maThesis + note)

	PhDThesis = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleO + endmark + ` +` + pubTail + `\. *` + phdThesis + note)

	InCollection = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleO + endmark + ` In:? ` + editor + ` ` + ed +
			`[.,]? ` + booktitle + endmark1 + ` \(?` + pagesPat + `\)?\. +` + pubTail)

	InCollectionParens = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleO + endmark + ` In:? ` + editor + ` ` + ed +
			`[.,]? ` + booktitle + `[.,]? \((?:` + pword + `)?` + pagesPat + `\)\. +` + pubTail)

	InCollectionMissing = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleO + endmark + ` *In:? *` + editor + ` *` + ed +
			`[.,]? ` + booktitle)

	Article = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleNE + endmark + ` +` + journal + `[.,]? ` +
			volumeNumber + `(?: *[.:,] *| +)?(?:` + pagesPat + `)?\. *` + note)

	// Book is anchored: it only recognizes a reference from its start.
	Book = regexp.MustCompile(
		`^` + author + `[., ]* ` + edFlag + `[., ]*` + year + `[., ]*` + titleG)

	Misc = regexp.MustCompile(
		author + `[., ]*` + year + `[., ]*` + titleG + endmark + ` *` + note)

	// EditorMarker gates the in-collection grammars: a year followed
	// somewhere by an "(ed.)"/"(eds.)" parenthetical.
	EditorMarker = regexp.MustCompile(year + `.*` + ed)

	// Pages matches a bare page range.
	Pages = regexp.MustCompile(pagesPat)

	// PagesAtStart matches a page range at the start of a note, with
	// trailing separators, so the range can be cut out of the note.
	PagesAtStart = regexp.MustCompile(`^ *` + pagesPat + `[ .,;:]*`)
)

// Auxiliary extraction patterns.
var (
	// CamelCase matches Binnenmajuskeln: acronyms and InterCaps tokens
	// such as OpenAI or ICPhS that must not be case-folded.
	CamelCase = regexp.MustCompile(`[A-Z][A-Za-z0-9\-']*[A-Z][A-Za-z0-9\-']+`)

	// Proceedings-like keywords, capitalized / lower-case / fuzzy.
	Proceedings      = regexp.MustCompile(`\b(Proceedings|Workshop|Conference|Symposium)\b`)
	ProceedingsLower = regexp.MustCompile(`\b(proceedings|workshop|conference|symposium)\b`)
	ProceedingsFuzzy = regexp.MustCompile(`(?i)(roceedings|orkshop|onference|ymposium)`)

	// TitleVolume matches an embedded volume indication inside a title.
	TitleVolume = regexp.MustCompile(`(, )?([Vv]olume|[Vv]ol.?|Band|[Tt]ome) *([0-9IVXivx]+)`)

	// Thesis matches thesis/dissertation indicators.
	Thesis = regexp.MustCompile(`(?i)(thesis(es)?|dissertation|proquest)`)

	// MainTitle matches the first letter of a likely subtitle, e.g.
	// "Maintitle: the subtitle".
	MainTitle = regexp.MustCompile(`([:?!]) +([a-zA-Z])`)

	// ArticleID matches article-id prefixes like "Article ID 34".
	ArticleID = regexp.MustCompile(`(?i)^(?:article|art\.?|id\.?|number|no\.?){1,3} *([A-Za-z0-9]+)`)

	// TypeKeyFields splits a structured entry (leading @ removed) into
	// type, key and field body.
	TypeKeyFields = regexp.MustCompile(`(?s)^\s*([^{\s]+)\s*\{\s*([^,\s]+)\s*,\s*(.*)\}`)
)

// Calendar-date fragments and URL/date patterns.
const (
	yyyy = `[12][0-9][0-9][0-9]`
	mm   = `[10]?[0-9]`
	dd   = `[0123]?[0-9]`

	isoDate  = yyyy + `-` + mm + `-` + dd
	euroDate = dd + `\.` + mm + `\.` + yyyy
)

var (
	// URLWithDate matches a URL followed by an access date, as found in
	// pasted "retrieved on" tails.
	URLWithDate = regexp.MustCompile(`(https?://\S+) .*?(` + isoDate + `|` + euroDate + `)`)

	// ISODate matches a bare ISO calendar date.
	ISODate = regexp.MustCompile(`\b` + isoDate + `\b`)

	// URL matches a URL right-bounded by space or parenthesis.
	URL = regexp.MustCompile(`(?i)(https?://[^ ()]+)`)

	// Domain extracts the host part of a URL.
	Domain = regexp.MustCompile(`(?i)^https?://([^/]+)`)
)

// DOI and handle patterns.
const doiPat = `(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`

var (
	// DOI matches a canonical DOI.
	DOI = regexp.MustCompile(`(?i)` + doiPat)

	// Handle matches a handle-system identifier such as "10125/4345".
	Handle = regexp.MustCompile(`(?i)(\d{4,5}\.\d{4,5}/[-._;()/:A-Z0-9]+)`)

	// GenericDOI matches a DOI embedded under a /doi/ path on an
	// untrusted domain; such matches are only reported, never promoted.
	GenericDOI = regexp.MustCompile(`(?i)doi/.*?` + doiPat + `(?:[/.](?:full|abstract|abs|html|pdf))?$`)
)

// DOIWhitelist maps trusted publisher domains to the pattern that
// extracts the DOI from that domain's URLs. A match on one of these
// domains is authoritative: the DOI replaces the URL.
var DOIWhitelist = map[string]*regexp.Regexp{
	"www.degruyter.com":    regexp.MustCompile(`(?i)/` + doiPat + `(?:/html|/pdf)?`),
	"academic.oup.com":     regexp.MustCompile(`(?i)/doi/` + doiPat),
	"www.tandfonline.com":  regexp.MustCompile(`(?i)/doi/(?:full|abs|pdf)?/` + doiPat),
	"doi.org":              regexp.MustCompile(`(?i)doi\.org/` + doiPat),
	"dx.doi.org":           regexp.MustCompile(`(?i)dx\.doi\.org/` + doiPat),
	"doi.acm.org":          regexp.MustCompile(`(?i)doi\.acm\.org/` + doiPat),
	"journals.sagepub.com": regexp.MustCompile(`(?i)/doi/` + doiPat),
	"asa.scitation.org":    regexp.MustCompile(`(?i)/doi/` + doiPat),
	"doi.wiley.com":        regexp.MustCompile(`(?i)doi\.wiley\.com/` + doiPat),
	"link.springer.com":    regexp.MustCompile(`(?i)/` + doiPat),
	"jbe-platform.com":     regexp.MustCompile(`(?i)/` + doiPat),
	"pubs.asha.org":        regexp.MustCompile(`(?i)/doi/` + doiPat),
	"dx.plos.org":          regexp.MustCompile(`(?i)/(10\.1371/journal\.pone\.\d+)`),
	"frontiersin.org":      regexp.MustCompile(`(?i)/articles/` + doiPat + `(?:/full|/abstract)?`),
}

// NonArchivalDomains lists aggregator sites that are not stable
// repositories; a URL on one of these is flagged, not removed.
var NonArchivalDomains = []string{
	"ebrary",
	"degruyter",
	"myilibrary",
	"academia",
	"ebscohost",
	"researchgate",
}

// Captures runs re against s and returns the named captures as a map, or
// nil if there is no match. Unmatched optional groups map to "".
func Captures(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out
}
