// Package integration exercises the full parse-normalize-render path
// over whole documents, the way the CLI drives it.
package integration

import (
	"strings"
	"testing"

	"github.com/lspress/bibnorm/internal/batch"
)

const mixedDocument = `% chapter bibliography

@article{Smith2020,
	author = {Smith, Jane},
	title = {A Study of Syntax},
	journal = {Journal of Linguistics},
	volume = {12},
	number = {3},
	pages = {45-67},
	year = {2020},
	abstract = {Dropped on output.}
}

@book{Doe2019,
	author = {Doe, John},
	title = {A Book},
	year = {2019}
}

@garbage-that-does-not-parse

@incollection{Lee2005,
	author = {Lee, Ann},
	editor = {Smith, John},
	title = {On vowels},
	booktitle = {Phonology papers},
	pages = {11-22},
	publisher = {Mouton de Gruyter},
	year = {2005}
}`

func TestStructuredDocument(t *testing.T) {
	res := batch.Normalize(mixedDocument, batch.Options{Mode: batch.ModeBibTeX})

	out := res.Output

	// Unparsable entry verbatim at the top, then the preamble.
	if !strings.HasPrefix(out, "@garbage-that-does-not-parse") {
		t.Errorf("failure block missing from head of output:\n%s", out)
	}
	if !strings.Contains(out, "% chapter bibliography") {
		t.Error("preamble lost")
	}

	// Pages normalized, junk fields dropped.
	if !strings.Contains(out, "pages = {45--67}") {
		t.Error("pages not normalized")
	}
	if strings.Contains(out, "abstract") {
		t.Error("abstract leaked into output")
	}

	// Missing mandatory book fields are marked in-band.
	if !strings.Contains(out, `address = {\biberror{no address}}`) {
		t.Error("missing address not marked")
	}
	if !strings.Contains(out, `publisher = {\biberror{no publisher}}`) {
		t.Error("missing publisher not marked")
	}

	// The incollection picks up the publisher's city.
	if !strings.Contains(out, "@incollection{Lee2005,") {
		t.Error("incollection entry missing")
	}
	if !strings.Contains(out, "address = {Berlin}") {
		t.Error("publisher address not filled in")
	}

	// Types descend, keys ascend within a type.
	order := []string{"@incollection{Lee2005", "@book{Doe2019", "@article{Smith2020"}
	last := -1
	for _, marker := range order {
		at := strings.Index(out, marker)
		if at == -1 {
			t.Fatalf("%s missing from output:\n%s", marker, out)
		}
		if at < last {
			t.Errorf("%s out of order", marker)
		}
		last = at
	}
}

func TestRoundTripStability(t *testing.T) {
	first := batch.Normalize(mixedDocument, batch.Options{Mode: batch.ModeBibTeX})
	second := batch.Normalize(first.Output, batch.Options{Mode: batch.ModeBibTeX})

	if second.Output != first.Output {
		t.Errorf("output changed on second run:\nfirst:\n%s\n\nsecond:\n%s",
			first.Output, second.Output)
	}
}

func TestNaturalDocument(t *testing.T) {
	input := strings.Join([]string{
		"Smith, Jane (2020). A Study of Syntax. Journal of Linguistics 12(3), 45-67.",
		"Smith, John. 2001. The syntax of nouns. Cambridge: University of Cambridge. MA thesis.",
		"Doe, Jane. 2005. On vowels. In Smith, John (ed.), Phonology papers, 11-22. Berlin: Mouton.",
	}, "\n")

	res := batch.Normalize(input, batch.Options{Mode: batch.ModeNatural})
	out := res.Output

	for _, want := range []string{
		"@article{Smith2020,",
		"@mastersthesis{Smith2001,",
		"@incollection{Doe2005,",
		"school = {University of Cambridge}",
		"pages = {45--67}",
		"editor = {Smith, John}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(res.Failed()) != 0 {
		t.Errorf("unexpected failures: %d", len(res.Failed()))
	}
}
