package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

// fullMatch returns the submatches of re only when the match covers all
// of s.
func fullMatch(re *regexp.Regexp, s string) []string {
	m := re.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return nil
	}
	return m
}

// noteFields can hide URLs or access dates that belong in dedicated
// fields.
var noteFields = []string{"note", "addendum", "annote"}

// checkURL promotes handle, stableurl and opturl values into the url
// field, cleans the URL, splits an embedded access date into urldate,
// and promotes a DOI-bearing URL on a trusted domain into the doi
// field, dropping the URL.
func (p *pipeline) checkURL() {
	f := p.e.Fields

	if _, ok := f["url"]; !ok {
		if braced, ok := f["handle"]; ok {
			handle := entry.TrimBraces(braced)
			if m := fullMatch(grammar.Handle, handle); m != nil {
				f["url"] = entry.AddBraces("http://hdl.handle.net/" + m[1])
				delete(f, "handle")
				p.diag("converted handle to URL: %s", m[1])
				return
			}
		}
		for _, alias := range []string{"stableurl", "opturl"} {
			if v, ok := f[alias]; ok {
				f["url"] = v
				delete(f, alias)
				p.diag("remapped %s to url", alias)
				break
			}
		}
		for _, field := range noteFields {
			if v := f[field]; strings.Contains(v, "http") {
				p.diag("URL found in %s: %s", field, v)
			}
		}
	}

	braced, ok := f["url"]
	if !ok || strings.HasPrefix(braced, entry.ErrorMarkerPrefix) {
		return
	}
	url := strings.TrimSuffix(entry.TrimBraces(braced), ".")
	if url == "" {
		delete(f, "url")
		return
	}
	if strings.HasPrefix(url, "file:") {
		delete(f, "url")
		p.diag("removed local file URL")
		return
	}
	if !strings.HasPrefix(url, "http") {
		p.diag("url does not start with http: %s", url)
	}

	if strings.Contains(url, " ") {
		p.diag("space in url: %s", url)
		if m := grammar.URLWithDate.FindStringSubmatch(url); m != nil {
			matched, date := m[1], m[2]
			if existing, ok := f["urldate"]; ok {
				if entry.TrimBraces(existing) != date {
					p.diag("access date in url (%s) differs from urldate (%s); keeping urldate",
						date, entry.TrimBraces(existing))
				}
			} else {
				f["urldate"] = entry.AddBraces(date)
			}
			url = matched
		} else if m := grammar.URL.FindStringSubmatch(url); m != nil {
			url = m[1]
		} else {
			f["url"] = `{\biberror{remove space and check url: ` + url + `}}`
			p.diag("url has a space and no recognizable URL inside: %s", url)
			return
		}
	}
	if strings.Contains(url, ",") {
		p.diag("comma in url: %s", url)
	}

	// DOI promotion from trusted domains.
	if dm := grammar.Domain.FindStringSubmatch(url); dm != nil {
		domain := strings.ToLower(dm[1])
		if pat, trusted := grammar.DOIWhitelist[domain]; trusted {
			if m := pat.FindStringSubmatch(url); m != nil {
				doi := m[1]
				if existing, ok := f["doi"]; ok {
					if strings.EqualFold(entry.TrimBraces(existing), doi) {
						delete(f, "url")
						p.diag("removed url duplicating doi %s", doi)
						return
					}
					p.diag("DOI in URL (%s) disagrees with doi field (%s)", doi, entry.TrimBraces(existing))
				} else {
					f["doi"] = entry.AddBraces(doi)
					delete(f, "url")
					p.diag("promoted URL on %s to doi %s", domain, doi)
					return
				}
			}
		} else if m := grammar.GenericDOI.FindStringSubmatch(url); m != nil {
			p.diag("DOI-like path on untrusted domain %s: %s", domain, m[1])
		}
	}

	// The URL may itself be a bare DOI.
	if m := fullMatch(grammar.DOI, url); m != nil {
		doi := m[1]
		if existing, ok := f["doi"]; ok {
			if strings.EqualFold(entry.TrimBraces(existing), doi) {
				delete(f, "url")
			} else {
				p.diag("url holds DOI %s but doi field has %s", doi, entry.TrimBraces(existing))
			}
		} else {
			f["doi"] = entry.AddBraces(doi)
			delete(f, "url")
			p.diag("moved DOI from url to doi: %s", doi)
		}
		return
	}

	for _, domain := range grammar.NonArchivalDomains {
		if strings.Contains(url, domain) {
			p.diag("use url only for stable repositories: %s", url)
		}
	}

	f["url"] = entry.AddBraces(url)
}

// checkURLDate validates the urldate field as an ISO calendar date and
// flags a urldate without a url, or a dated note on an undated url.
func (p *pipeline) checkURLDate() {
	f := p.e.Fields
	url, urldate := f["url"], f["urldate"]

	if urldate != "" && url == "" {
		p.diag("urldate without url")
	}
	if urldate != "" {
		clean := entry.TrimBraces(urldate)
		if t, err := time.Parse("2006-01-02", clean); err == nil {
			f["urldate"] = entry.AddBraces(t.Format("2006-01-02"))
		} else {
			p.diag("urldate is not an ISO date: %s", clean)
		}
	}
	if p.e.Type == "misc" && url != "" && urldate == "" {
		for _, field := range noteFields {
			if v := f[field]; v != "" && grammar.ISODate.MatchString(v) {
				p.diag("possible access date in %s: %s", field, entry.TrimBraces(v))
			}
		}
	}
}

var (
	doiLabel     = regexp.MustCompile(`(?i)^doi[: ] *`)
	doiOrgPrefix = regexp.MustCompile(`(?i)^https?://(?:dx\.)?doi\.org/`)
	doiOrgBare   = regexp.MustCompile(`(?i)^doi\.org/`)
)

// checkDOI strips label and resolver prefixes from the doi field and
// validates the remainder. A handle masquerading as a DOI becomes a
// handle URL; an unrecoverable value is deleted rather than left to
// break the bibliography.
func (p *pipeline) checkDOI() {
	f := p.e.Fields
	braced, ok := f["doi"]
	if !ok || strings.HasPrefix(braced, entry.ErrorMarkerPrefix) {
		return
	}

	original := entry.TrimBraces(braced)
	raw := strings.TrimSuffix(original, ".")
	raw = strings.ReplaceAll(raw, `\_`, "_")
	raw = doiLabel.ReplaceAllString(raw, "")
	raw = doiOrgPrefix.ReplaceAllString(raw, "")
	raw = doiOrgBare.ReplaceAllString(raw, "")

	if m := fullMatch(grammar.DOI, raw); m != nil {
		f["doi"] = entry.AddBraces(m[1])
		if m[1] != original {
			p.diag("normalized doi to %s", m[1])
		}
		return
	}

	if m := fullMatch(grammar.Handle, raw); m != nil {
		handle := m[1]
		handleURL := entry.AddBraces("https://hdl.handle.net/" + handle)
		existing, hasURL := f["url"]
		switch {
		case hasURL && existing == handleURL:
			delete(f, "doi")
			p.diag("removed handle from doi; url already has it")
			return
		case hasURL:
			p.diag("handle in doi disagrees with url; check both: doi = %s, url = %s", raw, existing)
			// falls through to the invalid-DOI deletion below
		default:
			delete(f, "doi")
			f["url"] = handleURL
			p.diag("converted handle in doi to URL: %s", handle)
			return
		}
	}

	if strings.HasPrefix(strings.ToLower(raw), "http") {
		if m := grammar.DOI.FindStringSubmatch(raw); m != nil {
			doi := m[1]
			f["doi"] = entry.AddBraces(doi)
			if existing, hasURL := f["url"]; hasURL {
				if strings.Contains(existing, doi) {
					delete(f, "url")
					p.diag("extracted doi %s and removed matching url", doi)
				} else {
					p.diag("extracted doi %s from URL-like value; check url %s", doi, existing)
				}
			} else {
				p.diag("extracted doi from URL-like value: %s", doi)
			}
			return
		}
		delete(f, "doi")
		p.diag("removed URL-like doi without a DOI inside: %s", raw)
		return
	}

	delete(f, "doi")
	p.diag("removed invalid doi: %s", raw)
}

// checkBookIsThesis flags books whose publisher, url or note suggest
// the work is really a thesis and should carry a thesis entry type.
func (p *pipeline) checkBookIsThesis() {
	if p.e.Type != "book" {
		return
	}
	for _, field := range []string{"publisher", "url", "note"} {
		value := p.e.Get(field)
		if !entry.IsRealValue(value) {
			continue
		}
		if grammar.Thesis.MatchString(value) {
			p.diag("%s suggests a thesis; consider @phdthesis or @mastersthesis: %s", field, value)
			return
		}
	}
}
