package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lspress/bibnorm/internal/entry"
	"github.com/lspress/bibnorm/internal/grammar"
)

// fieldAliases maps biblatex-style field names to their classic BibTeX
// equivalents. The alias is moved, not copied; when both names carry a
// value the entry is only diagnosed.
var fieldAliases = [][2]string{
	{"location", "address"},
	{"date", "year"},
	{"journaltitle", "journal"},
}

func (p *pipeline) remapFields() {
	for _, a := range fieldAliases {
		alias, canonical := a[0], a[1]
		v := p.e.Get(alias)
		if !entry.IsRealValue(v) {
			continue
		}
		if entry.IsRealValue(p.e.Get(canonical)) {
			p.diag("both %s and %s present; not remapping", alias, canonical)
			continue
		}
		p.e.Fields[canonical] = v
		delete(p.e.Fields, alias)
		p.diag("remapped %s to %s", alias, canonical)
	}

	if p.e.Type == "inproceedings" {
		if v := p.e.Get("eventtitle"); entry.IsRealValue(v) && !entry.IsRealValue(p.e.Get("booktitle")) {
			p.e.Fields["booktitle"] = v
			p.diag("remapped eventtitle to booktitle")
		}
	}
}

var (
	trailingJunk = regexp.MustCompile(`^\{(.*?)[,:;. ]+\}$`)
	leadingJunk  = regexp.MustCompile(`^\{[,:;. ]+(.*?)\}$`)
)

// containerTypes are the entry types whose booktitle names a genuine
// containing work.
var containerTypes = map[string]bool{
	"inproceedings": true, "incollection": true, "inbook": true,
}

// checkBooktitle recovers a title misfiled under booktitle. Outside the
// container types a lone booktitle is the work's own title; within them
// the booktitle stays, and any volume indication moves out of it.
func (p *pipeline) checkBooktitle() {
	if containerTypes[p.e.Type] {
		p.moveVolume("booktitle")
		return
	}
	bt := p.e.Get("booktitle")
	if !entry.IsRealValue(bt) {
		return
	}
	if entry.IsRealValue(p.e.Get("title")) {
		p.diag("%s entry has both title and booktitle", p.e.Type)
		return
	}
	p.e.Fields["title"] = bt
	delete(p.e.Fields, "booktitle")
	p.diag("moved booktitle to title")
}

func (p *pipeline) checkVolumeNumber() {
	if p.e.Type == "book" {
		p.moveVolume("title")
	}
}

// moveVolume pulls a "Vol. 2" indication out of a title-like field into
// the volume field, cleaning up the punctuation the removal leaves
// behind.
func (p *pipeline) moveVolume(field string) {
	value := p.e.Get(field)
	if !entry.IsRealValue(value) {
		return
	}
	m := grammar.TitleVolume.FindStringSubmatch(value)
	if m == nil {
		return
	}
	volume := m[3]

	stripped := strings.ReplaceAll(value, m[0], "")
	if mm := trailingJunk.FindStringSubmatch(stripped); mm != nil {
		stripped = entry.AddBraces(mm[1])
	}
	if mm := leadingJunk.FindStringSubmatch(stripped); mm != nil {
		stripped = entry.AddBraces(mm[1])
	}
	if stripped == "{}" {
		p.diag("%s consists only of a volume indication: %s", field, value)
		return
	}

	if existing, ok := p.e.Fields["volume"]; ok {
		if entry.TrimBraces(existing) == volume {
			p.e.Fields[field] = stripped
			p.diag("removed redundant volume indication from %s", field)
		} else {
			p.diag("volume mismatch: volume is %s but %s says %s", entry.TrimBraces(existing), field, volume)
		}
		return
	}
	p.e.Fields[field] = stripped
	p.e.Fields["volume"] = entry.AddBraces(volume)
	p.diag("moved volume %s out of %s", volume, field)
}

var (
	ordinalEdition = regexp.MustCompile(`^([0-9]+)(?:st|nd|rd|th)?[ .]*(?:ed(?:ition|n|\.)?)?[ .]*$`)
	wordEditions   = map[string]string{
		"first": "1", "second": "2", "third": "3", "fourth": "4",
		"fifth": "5", "sixth": "6", "seventh": "7", "eighth": "8",
		"ninth": "9", "tenth": "10",
	}
)

// checkEdition reduces the edition field to a bare number.
func (p *pipeline) checkEdition() {
	value := p.e.Get("edition")
	if !entry.IsRealValue(value) {
		return
	}
	ed := strings.ToLower(strings.TrimSpace(entry.TrimBraces(value)))

	if m := ordinalEdition.FindStringSubmatch(ed); m != nil {
		if _, err := strconv.Atoi(m[1]); err == nil {
			if normalized := entry.AddBraces(m[1]); normalized != value {
				p.e.Fields["edition"] = normalized
				p.diag("normalized edition to %s", m[1])
			}
			return
		}
	}
	for word, n := range wordEditions {
		if strings.HasPrefix(ed, word) {
			p.e.Fields["edition"] = entry.AddBraces(n)
			p.diag("normalized edition %q to %s", ed, n)
			return
		}
	}
	p.diag("edition should be a bare number: %s", value)
}

var months = map[string]string{
	"january": "1", "february": "2", "march": "3", "april": "4",
	"may": "5", "june": "6", "july": "7", "august": "8",
	"september": "9", "october": "10", "november": "11", "december": "12",
	"jan": "1", "feb": "2", "mar": "3", "apr": "4", "jun": "6",
	"jul": "7", "aug": "8", "sep": "9", "sept": "9", "oct": "10",
	"nov": "11", "dec": "12",
}

// checkMonth reduces the month field to a number between 1 and 12.
func (p *pipeline) checkMonth() {
	value := p.e.Get("month")
	if !entry.IsRealValue(value) {
		return
	}
	raw := strings.ToLower(strings.Trim(entry.TrimBraces(value), " ."))

	if n, ok := months[raw]; ok {
		p.e.Fields["month"] = entry.AddBraces(n)
		if entry.AddBraces(n) != value {
			p.diag("normalized month to %s", n)
		}
		return
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(raw, "0")); err == nil && n >= 1 && n <= 12 {
		normalized := entry.AddBraces(strconv.Itoa(n))
		if normalized != value {
			p.e.Fields["month"] = normalized
			p.diag("normalized month to %d", n)
		}
		return
	}
	delete(p.e.Fields, "month")
	p.diag("removed unparseable month: %s", value)
}

func (p *pipeline) checkQuestionMarks() {
	for field, value := range p.e.Fields {
		if strings.Contains(value, "??") {
			p.diag("?? in %s: %s", field, value)
		}
	}
}
