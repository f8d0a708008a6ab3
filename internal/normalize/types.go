package normalize

import (
	"regexp"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

// handleMissing injects an in-band error marker for a mandatory field
// that is empty or absent. An existing marker is left alone, keeping
// repeated runs stable.
func (p *pipeline) handleMissing(field string) {
	if p.e.Fields[field] != "" {
		return
	}
	p.e.Fields[field] = entry.ErrorMarker(field)
	p.diag("missing %s", field)
}

// requirePages demands pages unless an identifier locates the work; a
// missing-pages diagnostic without a marker is enough when a url or doi
// is present.
func (p *pipeline) requirePages() {
	f := p.e.Fields
	if f["pages"] != "" {
		return
	}
	if f["url"] == "" && f["doi"] == "" {
		p.handleMissing("pages")
		return
	}
	p.diag("no pages")
}

// checkPublisherAddress canonicalizes the publisher name, fills in the
// publisher's conventional city when the address is missing, and flags
// combined "address: publisher" values and multi-city addresses.
func (p *pipeline) checkPublisherAddress() {
	f := p.e.Fields

	publisher := f["publisher"]
	if entry.IsRealValue(publisher) {
		if strings.Contains(publisher, ": ") {
			p.diag("separate address from publisher: %s", publisher)
		}
		trimmed := entry.TrimBraces(publisher)
		if full := p.lex.CanonicalPublisher(trimmed); full != trimmed {
			publisher = entry.AddBraces(full)
			f["publisher"] = publisher
			p.diag("canonicalized publisher to %s", full)
		}
	}

	if address := f["address"]; entry.IsRealValue(address) {
		if strings.Contains(address, ", ") {
			p.diag("use one place only in address: %s", address)
		}
	} else if entry.IsRealValue(publisher) {
		if city, ok := p.lex.AddressForPublisher(entry.TrimBraces(publisher)); ok {
			f["address"] = entry.AddBraces(city)
			p.diag("filled in address %s for publisher", city)
		}
	}
}

func (p *pipeline) checkArticle() {
	if p.e.Type != "article" {
		return
	}
	f := p.e.Fields
	if _, ok := f["volume"]; !ok {
		if n, ok := f["number"]; ok {
			f["volume"] = n
			delete(f, "number")
			p.diag("moved number to volume")
		}
	}
	for _, field := range []string{"author", "year", "title", "journal", "volume"} {
		p.handleMissing(field)
	}
	p.addSortName("")
	p.requirePages()
}

var titleCaseType = regexp.MustCompile(`\s.*?(Thesis|Dissertation)`)

func (p *pipeline) checkThesis() {
	switch p.e.Type {
	case "phdthesis", "mastersthesis", "thesis":
	default:
		return
	}
	f := p.e.Fields

	if _, ok := f["school"]; !ok {
		if inst, ok := f["institution"]; ok {
			f["school"] = inst
			delete(f, "institution")
			p.diag("remapped institution to school")
		}
	}
	if school, ok := f["school"]; ok && entry.IsRealValue(school) {
		trimmed := entry.TrimBraces(school)
		if full := p.lex.CanonicalSchool(trimmed); full != trimmed {
			f["school"] = entry.AddBraces(full)
			p.diag("canonicalized school to %s", full)
		}
	}
	if _, ok := f["address"]; !ok {
		if school, ok := f["school"]; ok {
			if city, ok := p.lex.AddressForSchool(entry.TrimBraces(school)); ok {
				f["address"] = entry.AddBraces(city)
				p.diag("filled in address %s for school", city)
			}
		}
	}

	for _, field := range []string{"author", "title", "address", "school", "year"} {
		p.handleMissing(field)
	}
	p.addSortName("")

	if p.e.Type == "thesis" {
		p.handleMissing("type")
	}
	if t := f["type"]; entry.IsRealValue(t) && titleCaseType.MatchString(t) {
		p.diag("thesis type may be in Title Case: %s", t)
	}
}

func (p *pipeline) checkBook() {
	if p.e.Type != "book" {
		return
	}
	f := p.e.Fields
	p.checkPublisherAddress()
	for _, field := range []string{"year", "title", "address", "publisher"} {
		p.handleMissing(field)
	}

	// Within a series, the book's place is its number; a volume is a
	// subdivision of the individual work.
	if _, ok := f["series"]; ok {
		if v, hasVolume := f["volume"]; hasVolume {
			if _, hasNumber := f["number"]; !hasNumber {
				f["number"] = v
				delete(f, "volume")
				p.diag("moved volume to number within series")
			}
		}
	}

	author, editor := f["author"], f["editor"]
	switch {
	case author != "" && editor != "":
		p.diag("book has both author and editor")
		p.addSortName(author)
	case author != "":
		p.addSortName(author)
	case editor != "":
		p.addSortName(editor)
	default:
		p.diag("book has neither author nor editor")
		p.handleMissing("author")
	}

	if entry.IsRealValue(f["pages"]) {
		p.diag("book should not have pages; use pagetotal for the extent")
	}
}

func (p *pipeline) checkInCollection() {
	if p.e.Type != "incollection" {
		return
	}
	f := p.e.Fields
	p.checkPublisherAddress()
	p.handleMissing("author")
	p.addSortName("")
	p.handleMissing("title")
	p.requirePages()

	booktitle := f["booktitle"]
	isProceedings := entry.IsRealValue(booktitle) && grammar.ProceedingsFuzzy.MatchString(booktitle)
	if isProceedings {
		p.diag("booktitle suggests proceedings; use @inproceedings")
	}
	if p.e.Has("crossref") {
		return
	}
	p.handleMissing("year")
	if booktitle == "" {
		for _, field := range []string{"booktitle", "editor", "publisher", "address"} {
			p.handleMissing(field)
		}
		return
	}
	if !isProceedings {
		for _, field := range []string{"editor", "publisher", "address"} {
			p.handleMissing(field)
		}
	}
}

func (p *pipeline) checkInProceedings() {
	if p.e.Type != "inproceedings" {
		return
	}
	p.checkPublisherAddress()
	p.handleMissing("author")
	p.addSortName("")
	p.handleMissing("title")
	p.requirePages()
	if !p.e.Has("crossref") {
		p.handleMissing("booktitle")
		p.handleMissing("year")
	}
}

func (p *pipeline) checkInBook() {
	if p.e.Type != "inbook" {
		return
	}
	f := p.e.Fields
	p.checkPublisherAddress()
	p.handleMissing("author")
	p.addSortName("")
	p.handleMissing("title")

	if f["chapter"] == "" && f["pages"] == "" {
		p.diag("@inbook needs either chapter or pages")
		p.handleMissing("chapter")
		p.handleMissing("pages")
	}
	if p.e.Has("crossref") {
		return
	}
	p.handleMissing("year")
	p.handleMissing("booktitle")

	editor, bookauthor := f["editor"], f["bookauthor"]
	switch {
	case entry.IsRealValue(editor) && entry.IsRealValue(bookauthor):
		p.diag("inbook has both editor and bookauthor: for a chapter in an edited book use @incollection")
	case entry.IsRealValue(editor):
		p.diag("if %s edited the book, use @incollection; if they authored it, use bookauthor", editor)
	case !entry.IsRealValue(bookauthor):
		p.diag("who is the author of the containing book?")
		p.handleMissing("bookauthor")
	}

	p.handleMissing("publisher")
	p.handleMissing("address")
}

func (p *pipeline) checkMisc() {
	if p.e.Type != "misc" {
		return
	}
	for _, field := range []string{"author", "title", "year"} {
		p.handleMissing(field)
	}
	p.addSortName("")
	if !p.e.Has("note") && !p.e.Has("howpublished") {
		p.diag("misc entry has neither note nor howpublished")
	}
}

// knownTypes are the entry types with a dedicated check above.
var knownTypes = map[string]bool{
	"article": true, "book": true, "incollection": true,
	"inproceedings": true, "inbook": true, "misc": true,
	"phdthesis": true, "mastersthesis": true, "thesis": true,
}

func (p *pipeline) checkOtherType() {
	if knownTypes[p.e.Type] {
		return
	}
	p.checkPublisherAddress()
	for _, field := range []string{"author", "title", "year"} {
		p.handleMissing(field)
	}
	p.addSortName("")
	p.diag("no checks defined for entry type %s", p.e.Type)
}
