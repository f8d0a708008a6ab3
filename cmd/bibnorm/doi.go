package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/normalize"
	"github.com/lspress/bibnorm/internal/pdfref"
	"github.com/lspress/bibnorm/internal/render"
)

func init() {
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <file.pdf>",
	Short: "Extract a DOI from a PDF and print a stub entry",
	Long: `Scan the first pages of a PDF for a DOI and print a stub BibTeX
entry carrying it, ready to be completed by hand or by a reference
manager.

Exits with status 3 when no DOI is found.

Usage:
  bibnorm doi paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

func runDOI(cmd *cobra.Command, args []string) error {
	path := args[0]

	doi, err := pdfref.ExtractDOI(path)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	if doi == "" {
		os.Exit(outputError(ExitDataError, "no DOI found in %s", path))
	}

	e := &entry.Entry{
		Type: "misc",
		Key:  keyFromFilename(path),
		Fields: map[string]string{
			"doi": entry.AddBraces(doi),
		},
	}
	normalize.Apply(e, normalize.Options{})

	fmt.Println(render.Entry(e))
	return nil
}

// keyFromFilename derives a citation key from the PDF's base name,
// keeping only letters and digits.
func keyFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "pdf"
	}
	return b.String()
}
