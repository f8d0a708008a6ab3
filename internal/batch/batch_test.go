package batch

import (
	"strings"
	"testing"
)

const twoEntries = `@article{Smith2020,
	author = {Smith, Jane},
	title = {A Study},
	journal = {Language},
	volume = {1},
	pages = {1--10},
	year = {2020}
}

@book{Doe2019,
	author = {Doe, John},
	title = {A Book},
	publisher = {Mouton},
	address = {Berlin},
	year = {2019}
}`

func TestNormalize_TypeDescKeyAscOrder(t *testing.T) {
	res := Normalize(twoEntries, Options{Mode: ModeBibTeX})

	bookAt := strings.Index(res.Output, "@book{Doe2019")
	articleAt := strings.Index(res.Output, "@article{Smith2020")
	if bookAt == -1 || articleAt == -1 {
		t.Fatalf("entries missing from output:\n%s", res.Output)
	}
	if bookAt > articleAt {
		t.Error("book should precede article in type-descending order")
	}
}

func TestNormalize_PreamblePreserved(t *testing.T) {
	input := "% my bibliography\n\n" + twoEntries
	res := Normalize(input, Options{Mode: ModeBibTeX})

	if res.Preamble != "% my bibliography" {
		t.Errorf("Preamble = %q", res.Preamble)
	}
	if !strings.HasPrefix(res.Output, "% my bibliography\n\n") {
		t.Errorf("preamble not at the head of output:\n%s", res.Output)
	}
}

func TestNormalize_FailedEntriesFirst(t *testing.T) {
	input := "@garbage\n\n" + twoEntries
	res := Normalize(input, Options{Mode: ModeBibTeX})

	if len(res.Failed()) != 1 {
		t.Fatalf("Failed() = %d entries, want 1", len(res.Failed()))
	}
	if !strings.HasPrefix(res.Output, "@garbage") {
		t.Errorf("unparsable entry should open the output:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "@book{Doe2019") {
		t.Error("parsable entries should still be rendered")
	}
}

func TestNormalize_DuplicateKeysAcrossBatch(t *testing.T) {
	input := `@misc{Same2000,
	title = {First}
}

@misc{Same2000,
	title = {Second}
}`
	res := Normalize(input, Options{Mode: ModeBibTeX})

	dups := 0
	for _, e := range res.Entries {
		for _, d := range e.Diagnostics {
			if strings.Contains(d, "duplicate key Same2000") {
				dups++
			}
		}
	}
	if dups != 1 {
		t.Errorf("got %d duplicate diagnostics, want 1", dups)
	}
}

func TestNormalize_KeysFilter(t *testing.T) {
	res := Normalize(twoEntries, Options{
		Mode: ModeBibTeX,
		Keys: map[string]bool{"Doe2019": true},
	})

	if strings.Contains(res.Output, "Smith2020") {
		t.Error("filtered-out entry appears in output")
	}
	if !strings.Contains(res.Output, "@book{Doe2019") {
		t.Error("selected entry missing from output")
	}
	// The filter limits output, not processing.
	if len(res.Entries) != 2 {
		t.Errorf("Entries = %d, want 2", len(res.Entries))
	}
}

func TestNormalize_NaturalMode(t *testing.T) {
	input := "Smith, Jane (2020). A Study of Syntax. Journal of Linguistics 12(3), 45-67.\n\nChomsky, Noam. 1981. Lectures on government and binding. Dordrecht: Foris.\n"
	res := Normalize(input, Options{Mode: ModeNatural})

	if !strings.Contains(res.Output, "@article{Smith2020,") {
		t.Errorf("article missing:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "@book{Chomsky1981,") {
		t.Errorf("book missing:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "pages = {45--67}") {
		t.Errorf("pages not normalized:\n%s", res.Output)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(twoEntries, Options{Mode: ModeBibTeX})
	second := Normalize(first.Output, Options{Mode: ModeBibTeX})

	if second.Output != first.Output {
		t.Errorf("second run changed the output:\nfirst:\n%s\nsecond:\n%s",
			first.Output, second.Output)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	res := Normalize("   \n  ", Options{Mode: ModeBibTeX})
	if len(res.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(res.Entries))
	}
	if res.Output != "" {
		t.Errorf("Output = %q, want empty", res.Output)
	}
}
