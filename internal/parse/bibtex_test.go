package parse

import (
	"strings"
	"testing"

	"github.com/lspress/bibnorm/internal/entry"
)

func TestBibTeX_BracedFields(t *testing.T) {
	src := `article{Smith2020,
	Author = {Smith, Jane},
	title = {A Study of Syntax},
	journal = {Journal of Linguistics},
	year = {2020},
}`
	e := BibTeX(src, entry.NewRegistry())

	if e.Failed {
		t.Fatalf("parse failed: %v", e.Diagnostics)
	}
	if e.Type != "article" {
		t.Errorf("Type = %q, want article", e.Type)
	}
	if e.Key != "Smith2020" {
		t.Errorf("Key = %q, want Smith2020", e.Key)
	}
	// Field names fold to lower case.
	if got := e.Get("author"); got != "{Smith, Jane}" {
		t.Errorf("author = %q", got)
	}
	if got := e.Get("year"); got != "{2020}" {
		t.Errorf("year = %q", got)
	}
}

func TestBibTeX_QuotedAndBareFields(t *testing.T) {
	src := `book{Doe2019,
	title = "A Book",
	year = 2019,
	publisher = {Mouton}
}`
	e := BibTeX(src, entry.NewRegistry())

	if e.Failed {
		t.Fatalf("parse failed: %v", e.Diagnostics)
	}
	// Quoted values get braces; bare values stay raw.
	if got := e.Get("title"); got != "{A Book}" {
		t.Errorf("title = %q", got)
	}
	if got := e.Get("year"); got != "2019" {
		t.Errorf("year = %q", got)
	}
}

func TestBibTeX_EmptyValuesDropped(t *testing.T) {
	src := `misc{Empty2000,
	title = {Kept},
	note = {}
}`
	e := BibTeX(src, entry.NewRegistry())

	if e.Failed {
		t.Fatalf("parse failed: %v", e.Diagnostics)
	}
	if e.Has("note") {
		t.Error("empty braced value should be dropped")
	}
	if !e.Has("title") {
		t.Error("title should survive")
	}
}

func TestBibTeX_Garbage(t *testing.T) {
	e := BibTeX("this is not an entry", entry.NewRegistry())
	if !e.Failed {
		t.Error("garbage input should fail")
	}
	if e.Fields != nil {
		t.Error("failed entry must not carry fields")
	}
}

func TestBibTeX_NoFields(t *testing.T) {
	e := BibTeX("misc{Bare1999, }", entry.NewRegistry())
	if !e.Failed {
		t.Error("entry without fields should fail")
	}
}

func TestBibTeX_DuplicateKey(t *testing.T) {
	reg := entry.NewRegistry()
	src := "misc{Same2000,\n\ttitle = {First}\n}"
	if e := BibTeX(src, reg); e.Failed {
		t.Fatalf("first parse failed: %v", e.Diagnostics)
	}
	e := BibTeX("misc{Same2000,\n\ttitle = {Second}\n}", reg)
	if e.Failed {
		t.Fatalf("second parse failed: %v", e.Diagnostics)
	}
	found := false
	for _, d := range e.Diagnostics {
		if strings.Contains(d, "duplicate key Same2000") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate-key diagnostic, got %v", e.Diagnostics)
	}
}
