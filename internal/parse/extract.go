package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lspress/bibnorm/internal/grammar"
)

var (
	urlAtEnd = regexp.MustCompile(`(https?://[^ ]+?)\.?$`)
	doiAtEnd = regexp.MustCompile(`(?i)(?:\bdoi[: ] *)?(10\.\d{4,9}/[-._;()/:A-Z0-9]+?)\.?$`)

	// pubAddrAtEnd matches a trailing "Address: Publisher" sentence.
	pubAddrAtEnd = regexp.MustCompile(`^(.+?)([.!?]) ([^:]+?): ([^:]+?)\.?$`)

	seriesNumber = regexp.MustCompile(`^(.*?) *\((.+?) +([-.0-9/]+)\)\.? *$`)

	// pagesInBooktitle cuts a "pp. 12-34" tail out of a booktitle.
	pagesInBooktitle = regexp.MustCompile(`[.,]? *\(? *\b(?:pp\.?|p\.) .*$`)
)

// extractURL cuts a trailing URL off s, returning the rest and the URL.
func extractURL(s string) (rest, url string) {
	loc := urlAtEnd.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	return strings.TrimRight(s[:loc[0]], " .,"), s[loc[2]:loc[3]]
}

// extractDOI cuts a trailing DOI off s, with or without a "doi:" label.
func extractDOI(s string) (rest, doi string) {
	loc := doiAtEnd.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	return strings.TrimRight(s[:loc[0]], " .,"), s[loc[2]:loc[3]]
}

// extractPubAddr recognizes a trailing "Address: Publisher" pair after a
// sentence end. It returns the address, the publisher, the text before
// the sentence end and the end marker itself.
func extractPubAddr(s string) (address, publisher, rest, endmark string, ok bool) {
	m := pubAddrAtEnd.FindStringSubmatch(s)
	if m == nil {
		return "", "", s, "", false
	}
	return m[3], m[4], m[1], m[2], true
}

// extractSeriesNumber recognizes a parenthesized "(Series 12)" tail.
func extractSeriesNumber(s string) (rest, series, number string, ok bool) {
	m := seriesNumber.FindStringSubmatch(s)
	if m == nil {
		return s, "", "", false
	}
	return strings.TrimRight(m[1], " ."), m[2], m[3], true
}

// pagesFromNote pulls a page range off the start of a note.
func pagesFromNote(note string) (pages, rest string) {
	loc := grammar.PagesAtStart.FindStringSubmatchIndex(note)
	if loc == nil {
		return "", note
	}
	return note[loc[2]:loc[3]], strings.TrimLeft(note[loc[1]:], " ")
}

func cleanBooktitle(bt string) string {
	return pagesInBooktitle.ReplaceAllString(bt, "")
}

// hyphenIn returns the first range separator found in s, preferring the
// typographic dashes over the plain hyphen.
func hyphenIn(s string) string {
	for _, h := range []string{"–", "—", "-"} {
		if strings.Contains(s, h) {
			return h
		}
	}
	return ""
}

// isJointIssue reports whether a range-shaped issue number like "3-4"
// denotes a joint issue: two integers no more than three apart.
func isJointIssue(s, hyphen string) bool {
	parts := strings.Split(s, hyphen)
	if len(parts) != 2 {
		return false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return false
	}
	return hi > lo && hi-lo <= 3
}

// SplitPubAddr splits a "Berlin: Mouton" tail into address and
// publisher at the first colon that neither opens a URL scheme nor
// closes a "doi"/"handle" label. With no such colon, the whole tail is
// the publisher and the address stays empty.
func SplitPubAddr(tail string) (address, publisher string) {
	for i := 0; i < len(tail); i++ {
		if tail[i] != ':' {
			continue
		}
		if strings.HasPrefix(tail[i+1:], "//") {
			continue
		}
		switch wordBefore(tail, i) {
		case "doi", "handle":
			continue
		}
		addr := strings.TrimRight(tail[:i], " ")
		if addr == "" {
			continue
		}
		return addr, strings.TrimLeft(tail[i+1:], " ")
	}
	return "", strings.TrimSpace(tail)
}

// wordBefore returns the lower-cased letter run ending at position i.
func wordBefore(s string, i int) string {
	j := i
	for j > 0 && isASCIILetter(s[j-1]) {
		j--
	}
	return strings.ToLower(s[j:i])
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// hasPubAddr reports whether s contains an "address: publisher"
// pattern anywhere, used to gate the permissive book grammar.
func hasPubAddr(s string) bool {
	for i := 1; i+1 < len(s); i++ {
		if s[i] != ':' || s[i+1] == '/' {
			continue
		}
		rest := strings.TrimLeft(s[i+1:], " ")
		if len(rest) >= 2 {
			return true
		}
	}
	return false
}
