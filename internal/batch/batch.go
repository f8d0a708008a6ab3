// Package batch runs whole documents through the parse, normalize and
// render stages: it splits the input into entries, processes each one
// in isolation, and assembles the ordered output document.
package batch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/normalize"
	"github.com/lspress/bibnorm/internal/parse"
	"github.com/lspress/bibnorm/internal/render"
)

// Mode selects the input format.
type Mode int

const (
	// ModeBibTeX splits the input on @-prefixed entry boundaries.
	ModeBibTeX Mode = iota
	// ModeNatural treats every non-blank line as one free-text reference.
	ModeNatural
)

// Options configures a batch run.
type Options struct {
	Mode Mode

	// Keys, when non-nil, restricts rendered output to entries whose
	// key is listed. All entries are still parsed and diagnosed, so
	// duplicate detection sees the whole document.
	Keys map[string]bool

	// SortNames forwards to the normalization pipeline.
	SortNames bool
}

// Result is the outcome of one batch run.
type Result struct {
	// Output is the assembled document: unparsable entries verbatim at
	// the top, then the preamble, then the normalized entries ordered by
	// type descending and key ascending.
	Output string

	// Entries holds every processed entry in input order, including
	// failures.
	Entries []*entry.Entry

	// Preamble is any text preceding the first structured entry,
	// preserved verbatim.
	Preamble string
}

// Failed returns the entries that no parser could classify.
func (r *Result) Failed() []*entry.Entry {
	var out []*entry.Entry
	for _, e := range r.Entries {
		if e.Failed {
			out = append(out, e)
		}
	}
	return out
}

var (
	entryBoundary = regexp.MustCompile(`\n\s*@`)
	wsRun         = regexp.MustCompile(`\s+`)
)

// Normalize processes the whole document. Entries are independent:
// a panic while processing one entry marks that entry failed and the
// run continues.
func Normalize(input string, opts Options) *Result {
	res := &Result{}
	raws := split(input, opts.Mode, res)

	reg := entry.NewRegistry()
	for _, raw := range raws {
		res.Entries = append(res.Entries, process(raw, opts, reg))
	}

	assemble(res, opts)
	return res
}

func split(input string, mode Mode, res *Result) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if mode == ModeNatural {
		var raws []string
		for _, line := range strings.Split(input, "\n") {
			line = wsRun.ReplaceAllString(strings.TrimSpace(line), " ")
			if line != "" {
				raws = append(raws, line)
			}
		}
		return raws
	}

	parts := entryBoundary.Split(input, -1)
	if strings.HasPrefix(input, "@") {
		parts[0] = strings.TrimPrefix(parts[0], "@")
		return parts
	}
	res.Preamble = strings.TrimSpace(parts[0])
	return parts[1:]
}

func process(raw string, opts Options, reg *entry.Registry) (e *entry.Entry) {
	defer func() {
		if r := recover(); r != nil {
			e = &entry.Entry{Raw: raw, Failed: true}
			e.Diag("internal error while processing entry: %v", r)
		}
	}()

	if opts.Mode == ModeBibTeX {
		e = parse.BibTeX(raw, reg)
	} else {
		e = parse.Natural(raw, reg)
	}
	normalize.Apply(e, normalize.Options{SortNames: opts.SortNames})
	return e
}

// assemble builds the output document. Two stable sorts give the
// type-descending, key-ascending order: books come before articles,
// and entries of one type sort by key.
func assemble(res *Result, opts Options) {
	var ok []*entry.Entry
	for _, e := range res.Entries {
		if !e.Failed {
			ok = append(ok, e)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].Key < ok[j].Key })
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].Type > ok[j].Type })

	var rendered []string
	for _, e := range ok {
		if opts.Keys != nil && !opts.Keys[e.Key] {
			continue
		}
		if s := render.Entry(e); s != "" {
			rendered = append(rendered, s)
		}
	}

	output := strings.Join(rendered, "\n\n")
	if res.Preamble != "" {
		output = res.Preamble + "\n\n" + output
	}

	if failed := res.Failed(); len(failed) > 0 {
		var block []string
		for _, e := range failed {
			raw := e.Raw
			if opts.Mode == ModeBibTeX {
				raw = "@" + raw
			}
			block = append(block, raw)
		}
		output = strings.Join(block, "\n\n") + "\n\n" + output
	}

	res.Output = output
}
