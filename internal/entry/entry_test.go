package entry

import "testing"

func TestIsRealValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"braced value", "{Mouton}", true},
		{"bare value", "2019", true},
		{"empty", "", false},
		{"empty braces", "{}", false},
		{"error marker", `{\biberror{no address}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRealValue(tt.value); got != tt.want {
				t.Errorf("IsRealValue(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestBraceHelpers(t *testing.T) {
	if got := TrimBraces("{Berlin}"); got != "Berlin" {
		t.Errorf("TrimBraces() = %q, want Berlin", got)
	}
	// Only one level is removed.
	if got := TrimBraces("{{Berlin}}"); got != "{Berlin}" {
		t.Errorf("TrimBraces() = %q, want {Berlin}", got)
	}
	if got := TrimBraces("Berlin"); got != "Berlin" {
		t.Errorf("TrimBraces() on unbraced = %q, want Berlin", got)
	}
	if got := AddBraces("Berlin"); got != "{Berlin}" {
		t.Errorf("AddBraces() = %q, want {Berlin}", got)
	}
}

func TestErrorMarker(t *testing.T) {
	got := ErrorMarker("journal")
	if got != `{\biberror{no journal}}` {
		t.Errorf("ErrorMarker() = %q", got)
	}
	if IsRealValue(got) {
		t.Error("an error marker must not count as a real value")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if dup := reg.Register("Smith2020"); dup {
		t.Error("first Register(Smith2020) reported a duplicate")
	}
	if dup := reg.Register("Smith2020"); !dup {
		t.Error("second Register(Smith2020) did not report a duplicate")
	}
	if !reg.Seen("Smith2020") {
		t.Error("Seen(Smith2020) = false after registration")
	}
	if reg.Seen("Doe2019") {
		t.Error("Seen(Doe2019) = true without registration")
	}
}

func TestEntryDiag(t *testing.T) {
	e := &Entry{Key: "X2000"}
	e.Diag("missing %s", "journal")
	e.Diag("missing %s", "volume")
	if len(e.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(e.Diagnostics))
	}
	if e.Diagnostics[0] != "missing journal" {
		t.Errorf("Diagnostics[0] = %q", e.Diagnostics[0])
	}
}
