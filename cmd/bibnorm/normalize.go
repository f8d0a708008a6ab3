package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lspress/bibnorm/internal/batch"
	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/keyindex"
)

var (
	normalizeModeFlag  string
	normalizeLogFlag   string
	normalizeKeysFlag  string
	normalizeIndexFlag string
	normalizeSortNames bool
	normalizeQuiet     bool
)

func init() {
	normalizeCmd.Flags().StringVar(&normalizeModeFlag, "mode", "", "Input mode (bibtex, natural); default from file extension")
	normalizeCmd.Flags().StringVar(&normalizeLogFlag, "log", "", "Run log file (default $BIBNORM_LOG or normalizebib.log)")
	normalizeCmd.Flags().StringVar(&normalizeKeysFlag, "keys", "", "File listing citation keys; only those entries are written")
	normalizeCmd.Flags().StringVar(&normalizeIndexFlag, "index", "", "Cross-run key index database (default $BIBNORM_INDEX; empty disables)")
	normalizeCmd.Flags().BoolVar(&normalizeSortNames, "sortnames", false, "Add a diacritic-free sortname field per entry")
	normalizeCmd.Flags().BoolVarP(&normalizeQuiet, "quiet", "q", false, "Suppress per-entry diagnostics")
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <input> <output>",
	Short: "Normalize a bibliography file and write canonical BibTeX",
	Long: `Normalize a bibliography file and write canonical BibTeX.

The input mode follows the file extension: .bib files are read as
BibTeX, .txt files as one free-text reference per line. Use --mode to
override.

Usage:
  bibnorm normalize references.bib references-clean.bib
  bibnorm normalize scraped.txt imported.bib --sortnames
  bibnorm normalize chapter1.bib out.bib --index keys.db`,
	Args: cobra.ExactArgs(2),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	mode, err := resolveMode(inPath, normalizeModeFlag)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		appendLog(logPath(), "FAILED reading %s: %v", inPath, err)
		os.Exit(outputError(ExitError, "reading %s: %v", inPath, err))
	}

	opts := batch.Options{Mode: mode, SortNames: normalizeSortNames}
	if normalizeKeysFlag != "" {
		keys, err := readKeys(normalizeKeysFlag)
		if err != nil {
			os.Exit(outputError(ExitError, "reading keys from %s: %v", normalizeKeysFlag, err))
		}
		opts.Keys = keys
	}

	res := batch.Normalize(string(data), opts)

	if err := os.WriteFile(outPath, []byte(res.Output+"\n"), 0o644); err != nil {
		appendLog(logPath(), "FAILED writing %s: %v", outPath, err)
		os.Exit(outputError(ExitError, "writing %s: %v", outPath, err))
	}

	if !normalizeQuiet {
		for _, e := range res.Entries {
			if opts.Keys != nil && !opts.Keys[e.Key] {
				continue
			}
			printDiagnostics(os.Stderr, e)
		}
	}

	if path := indexPath(); path != "" {
		if err := recordIndex(path, res); err != nil {
			os.Exit(outputError(ExitConfigError, "key index %s: %v", path, err))
		}
	}

	failed := res.Failed()
	appendLog(logPath(), "normalized %s -> %s: %d entries, %d failed",
		inPath, outPath, len(res.Entries), len(failed))
	if len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "%d entries could not be parsed; kept verbatim at the top of %s\n",
			len(failed), outPath)
	}
	return nil
}

// resolveMode picks the input mode from the --mode flag or, failing
// that, the input file extension.
func resolveMode(path, flag string) (batch.Mode, error) {
	switch flag {
	case "bibtex":
		return batch.ModeBibTeX, nil
	case "natural":
		return batch.ModeNatural, nil
	case "":
	default:
		return 0, fmt.Errorf("unknown mode %q (want bibtex or natural)", flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bib":
		return batch.ModeBibTeX, nil
	case ".txt":
		return batch.ModeNatural, nil
	}
	return 0, fmt.Errorf("cannot infer mode from %s; pass --mode", path)
}

func logPath() string {
	if normalizeLogFlag != "" {
		return normalizeLogFlag
	}
	if env := os.Getenv("BIBNORM_LOG"); env != "" {
		return env
	}
	return "normalizebib.log"
}

func indexPath() string {
	if normalizeIndexFlag != "" {
		return normalizeIndexFlag
	}
	return os.Getenv("BIBNORM_INDEX")
}

// readKeys reads one citation key per line, ignoring blanks and
// #-comments.
func readKeys(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys[line] = true
	}
	return keys, nil
}

// recordIndex checks every parsed entry against the cross-run index and
// records it. Warnings about cross-file duplicates go to stderr.
func recordIndex(path string, res *batch.Result) error {
	ix, err := keyindex.Open(path)
	if err != nil {
		return err
	}
	defer ix.Close()

	for _, e := range res.Entries {
		if e.Failed {
			continue
		}
		seen, err := ix.Seen(e.Key)
		if err != nil {
			return err
		}
		if seen {
			fmt.Fprintf(os.Stderr, "warning: key %s already recorded by an earlier run\n", e.Key)
		}
		doi := keyindex.NormalizeDOI(entry.TrimBraces(e.Get("doi")))
		if doi != "" {
			other, err := ix.KeyForDOI(doi)
			if err != nil {
				return err
			}
			if other != "" && other != e.Key {
				fmt.Fprintf(os.Stderr, "warning: doi %s already recorded under key %s\n", doi, other)
			}
		}
		if err := ix.Add(e.Key, doi); err != nil {
			return err
		}
	}
	return nil
}
