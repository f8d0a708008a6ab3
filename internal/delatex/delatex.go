// Package delatex strips LaTeX diacritic commands from strings, for
// contexts that need plain text, like sort keys.
package delatex

import "regexp"

// diacriticClass covers the accent commands: acute, grave, circumflex,
// tilde, umlaut, macron, dot, caron, and the letter-named commands.
const diacriticClass = "['`^~\"=.vdHukcrb]"

var (
	// The three forms a diacritic appears in: {\'{e}}, \'{e}, \'e.
	wrappedForm = regexp.MustCompile(`\{\\` + diacriticClass + `\{([A-Za-z])\}\}`)
	bracedForm  = regexp.MustCompile(`\\` + diacriticClass + `\{([A-Za-z])\}`)
	bareForm    = regexp.MustCompile(`\\` + diacriticClass + `([A-Za-z])`)
)

// Dediacriticize reduces accented letters to their base letter, e.g.
// `Nu\~nez` to `Nunez`.
func Dediacriticize(s string) string {
	s = wrappedForm.ReplaceAllString(s, "$1")
	s = bracedForm.ReplaceAllString(s, "$1")
	return bareForm.ReplaceAllString(s, "$1")
}
