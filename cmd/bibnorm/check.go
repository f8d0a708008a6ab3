package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lspress/bibnorm/internal/batch"
)

var checkModeFlag string

func init() {
	checkCmd.Flags().StringVar(&checkModeFlag, "mode", "", "Input mode (bibtex, natural); default from file extension")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Report diagnostics without writing output",
	Long: `Report what normalization would change or flag, without writing
any output file.

Exits with status 3 when entries fail to parse.

Usage:
  bibnorm check references.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	mode, err := resolveMode(inPath, checkModeFlag)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		os.Exit(outputError(ExitError, "reading %s: %v", inPath, err))
	}

	res := batch.Normalize(string(data), batch.Options{Mode: mode})
	for _, e := range res.Entries {
		printDiagnostics(os.Stdout, e)
	}

	if failed := res.Failed(); len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "%d entries could not be parsed\n", len(failed))
		os.Exit(ExitDataError)
	}
	return nil
}
