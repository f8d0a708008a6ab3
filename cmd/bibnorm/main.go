// Package main provides the bibnorm CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env holding BIBNORM_* defaults; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibnorm",
	Short: "Normalize bibliographic references into canonical BibTeX",
	Long: `bibnorm parses bibliographic references, either BibTeX entries or
free-text reference lines, normalizes their fields, and writes a clean
BibTeX file with alphabetically sorted fields.

Entries that cannot be parsed are kept verbatim in a block at the top
of the output, so nothing is silently lost. Missing mandatory fields
are marked in-band with \biberror so they show up in the typeset
bibliography.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
