package normalize

import "testing"

func TestCheckURL_DOIPromotion(t *testing.T) {
	e := articleWith(map[string]string{
		"url":   "{https://doi.org/10.1162/ling.2008.39.1.1}",
		"pages": "{1--10}",
	})
	Apply(e, Options{})

	if got := e.Get("doi"); got != "{10.1162/ling.2008.39.1.1}" {
		t.Errorf("doi = %q", got)
	}
	if e.Has("url") {
		t.Errorf("url should be dropped after promotion, got %q", e.Get("url"))
	}
}

func TestCheckURL_DOIMismatchKeepsBoth(t *testing.T) {
	e := articleWith(map[string]string{
		"url":   "{https://doi.org/10.1000/other}",
		"doi":   "{10.1000/existing}",
		"pages": "{1--10}",
	})
	Apply(e, Options{})

	if !e.Has("url") {
		t.Error("url should survive a DOI disagreement")
	}
	if got := e.Get("doi"); got != "{10.1000/existing}" {
		t.Errorf("doi = %q, existing value must win", got)
	}
	if !hasDiag(e, "disagrees") {
		t.Errorf("missing disagreement diagnostic: %v", e.Diagnostics)
	}
}

func TestCheckURL_EmbeddedAccessDate(t *testing.T) {
	e := articleWith(map[string]string{
		"url":   "{https://example.org/paper accessed 2021-03-04}",
		"pages": "{1--10}",
	})
	Apply(e, Options{})

	if got := e.Get("url"); got != "{https://example.org/paper}" {
		t.Errorf("url = %q", got)
	}
	if got := e.Get("urldate"); got != "{2021-03-04}" {
		t.Errorf("urldate = %q", got)
	}
}

func TestCheckURL_HandlePromotion(t *testing.T) {
	e := articleWith(map[string]string{
		"handle": "{1234.5678/abc}",
		"pages":  "{1--10}",
	})
	Apply(e, Options{})

	if got := e.Get("url"); got != "{http://hdl.handle.net/1234.5678/abc}" {
		t.Errorf("url = %q", got)
	}
	if e.Has("handle") {
		t.Error("handle field should be removed")
	}
}

func TestCheckURL_FileURLRemoved(t *testing.T) {
	e := articleWith(map[string]string{
		"url":   "{file:///home/user/paper.pdf}",
		"pages": "{1--10}",
	})
	Apply(e, Options{})
	if e.Has("url") {
		t.Error("file: URL should be removed")
	}
}

func TestCheckDOI_PrefixStripping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "{10.1515/9783110220261}", "{10.1515/9783110220261}"},
		{"label", "{doi:10.1515/9783110220261}", "{10.1515/9783110220261}"},
		{"resolver", "{https://doi.org/10.1515/9783110220261}", "{10.1515/9783110220261}"},
		{"dx resolver", "{http://dx.doi.org/10.1515/9783110220261}", "{10.1515/9783110220261}"},
		{"trailing period", "{10.1515/9783110220261.}", "{10.1515/9783110220261}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := articleWith(map[string]string{"doi": tt.in, "pages": "{1--10}"})
			Apply(e, Options{})
			if got := e.Get("doi"); got != tt.want {
				t.Errorf("doi = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckDOI_InvalidRemoved(t *testing.T) {
	e := articleWith(map[string]string{"doi": "{not a doi}", "pages": "{1--10}"})
	Apply(e, Options{})
	if e.Has("doi") {
		t.Errorf("invalid doi should be removed, got %q", e.Get("doi"))
	}
	if !hasDiag(e, "invalid doi") {
		t.Errorf("missing invalid-doi diagnostic: %v", e.Diagnostics)
	}
}

func TestCheckDOI_HandleBecomesURL(t *testing.T) {
	e := articleWith(map[string]string{"doi": "{1234.5678/abc}", "pages": "{1--10}"})
	Apply(e, Options{})
	if e.Has("doi") {
		t.Error("handle in doi should be removed")
	}
	if got := e.Get("url"); got != "{https://hdl.handle.net/1234.5678/abc}" {
		t.Errorf("url = %q", got)
	}
}

func TestCheckURLDate_Validation(t *testing.T) {
	e := articleWith(map[string]string{
		"url":     "{https://example.org/x}",
		"urldate": "{2021-13-01}",
		"pages":   "{1--10}",
	})
	Apply(e, Options{})
	if !hasDiag(e, "not an ISO date") {
		t.Errorf("missing urldate diagnostic: %v", e.Diagnostics)
	}

	e = articleWith(map[string]string{"urldate": "{2021-03-01}", "pages": "{1--10}"})
	Apply(e, Options{})
	if !hasDiag(e, "urldate without url") {
		t.Errorf("missing urldate-without-url diagnostic: %v", e.Diagnostics)
	}
}
