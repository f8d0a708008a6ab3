// Package normalize implements the field-level consistency pass over
// parsed entries: a fixed sequence of serial checks applied to every
// entry, followed by one check gated on the entry type. Checks mutate
// the entry in place; every correction or suspicion is recorded as a
// diagnostic, and missing mandatory fields get in-band error markers.
package normalize

import (
	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/lexicon"
)

// Options configures a pipeline run.
type Options struct {
	// SortNames adds a diacritic-free sortname field derived from the
	// first contributor.
	SortNames bool

	// Lexicon overrides the lookup tables; nil selects the embedded
	// default.
	Lexicon *lexicon.Lexicon
}

// Apply runs the pipeline on e in place. Failed entries are left
// untouched: there are no fields to normalize and the raw text must
// survive verbatim.
func Apply(e *entry.Entry, opts Options) {
	if e.Failed {
		return
	}
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	p := &pipeline{e: e, lex: lex, opts: opts}

	// Serial checks, in this order. Order matters: field remapping must
	// precede the per-field checks, identifier checks feed on each
	// other's output, and capitalization protection runs last so that it
	// sees final field values.
	p.remapFields()
	p.checkPages()
	p.checkBooktitle()
	p.checkVolumeNumber()
	p.checkInitials()
	p.checkAmpersand()
	p.checkEtAl()
	p.checkAnd()
	p.checkEdition()
	p.checkURL()
	p.checkURLDate()
	p.checkDOI()
	p.checkQuestionMarks()
	p.checkBookIsThesis()
	p.checkMonth()
	p.checkDecapitalization()

	// Type-gated checks. Exactly one of these acts, keyed on e.Type.
	p.checkArticle()
	p.checkThesis()
	p.checkBook()
	p.checkInCollection()
	p.checkInProceedings()
	p.checkInBook()
	p.checkMisc()
	p.checkOtherType()
}

type pipeline struct {
	e    *entry.Entry
	lex  *lexicon.Lexicon
	opts Options
}

func (p *pipeline) diag(format string, args ...any) {
	p.e.Diag(format, args...)
}

// nameFields are the fields holding person names.
var nameFields = []string{"author", "editor", "bookauthor", "translator"}
