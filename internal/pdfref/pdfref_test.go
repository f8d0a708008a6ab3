package pdfref

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"labeled",
			"Journal of Something 12(3). doi:10.1162/ling.2008.39.1.1",
			"10.1162/ling.2008.39.1.1",
		},
		{
			"trailing punctuation",
			"available at https://doi.org/10.1515/9783110220261.",
			"10.1515/9783110220261",
		},
		{
			"none",
			"no identifier in this text at all",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDOI_MissingFile(t *testing.T) {
	if _, err := ExtractDOI("no/such/file.pdf"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
