package normalize

import (
	"strings"
	"testing"

	"github.com/lspress/bibnorm/internal/entry"
)

func articleWith(fields map[string]string) *entry.Entry {
	base := map[string]string{
		"author":  "{Smith, Jane}",
		"year":    "{2020}",
		"title":   "{Work}",
		"journal": "{Journal}",
		"volume":  "{1}",
	}
	for k, v := range fields {
		base[k] = v
	}
	return &entry.Entry{Type: "article", Key: "Smith2020", Fields: base}
}

func hasDiag(e *entry.Entry, substr string) bool {
	for _, d := range e.Diagnostics {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}

func TestCheckPages_Normalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen", "{12-14}", "{12--14}"},
		{"en dash", "{12–14}", "{12--14}"},
		{"em dash", "{12—14}", "{12--14}"},
		{"pp prefix", "{pp. 12-14}", "{12--14}"},
		{"already normalized", "{12--14}", "{12--14}"},
		{"semicolon list", "{12; 34}", "{12, 34}"},
		{"single page", "{7}", "{7}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := articleWith(map[string]string{"pages": tt.in})
			Apply(e, Options{})
			if got := e.Get("pages"); got != tt.want {
				t.Errorf("pages = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckPages_Deletions(t *testing.T) {
	for _, in := range []string{"{none}", "{}", "{123 pp.}"} {
		t.Run(in, func(t *testing.T) {
			e := articleWith(map[string]string{"pages": in, "doi": "{10.1/x}"})
			Apply(e, Options{})
			if v := e.Get("pages"); entry.IsRealValue(v) {
				t.Errorf("pages should be gone, got %q", v)
			}
		})
	}
}

func TestCheckPages_Flags(t *testing.T) {
	e := articleWith(map[string]string{"pages": "{12--12}"})
	Apply(e, Options{})
	if !hasDiag(e, "degenerate page range") {
		t.Errorf("missing degenerate-range diagnostic: %v", e.Diagnostics)
	}

	e = articleWith(map[string]string{"pages": "{II--IV}"})
	Apply(e, Options{})
	if !hasDiag(e, "capital Roman numerals") {
		t.Errorf("missing Roman-numeral diagnostic: %v", e.Diagnostics)
	}
	if got := e.Get("pages"); got != "{II--IV}" {
		t.Errorf("flagged range should not be altered, got %q", got)
	}
}

func TestCheckPages_PageAlias(t *testing.T) {
	e := articleWith(map[string]string{"page": "{33-44}"})
	Apply(e, Options{})
	if got := e.Get("pages"); got != "{33--44}" {
		t.Errorf("pages = %q, want {33--44}", got)
	}
	if e.Has("page") {
		t.Error("page alias should be removed")
	}
}
