// Package lexicon provides the static lookup tables consumed by the
// normalization pipeline: proper-noun lists for capitalization
// protection, and canonical-name and address tables for schools and
// publishers. The tables are data, not logic; they are compiled in from
// YAML files and read-only at runtime.
package lexicon

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/nouns.yaml data/publishers.yaml
var dataFS embed.FS

// Lexicon bundles all lookup tables.
type Lexicon struct {
	// ProperNouns is the union of the noun lists (languages, countries,
	// oceans, continents, cities) whose capitalization must survive.
	ProperNouns []string

	// SchoolFull maps school-name variants to their canonical form.
	SchoolFull map[string]string

	// SchoolAddress maps canonical school names to their city.
	SchoolAddress map[string]string

	// PublisherFull maps publisher-name variants to their canonical form.
	PublisherFull map[string]string

	// PublisherAddress maps publisher-name substrings to the publisher's
	// city; rules are checked in order, first match wins.
	PublisherAddress []PublisherAddressRule

	nounPattern *regexp.Regexp
}

// PublisherAddressRule assigns an address when any substring occurs in
// the lower-cased publisher name.
type PublisherAddressRule struct {
	Substrings []string `yaml:"substrings"`
	Address    string   `yaml:"address"`
}

type nounsFile struct {
	Languages  []string `yaml:"languages"`
	Countries  []string `yaml:"countries"`
	Oceans     []string `yaml:"oceans"`
	Continents []string `yaml:"continents"`
	Cities     []string `yaml:"cities"`
}

type publishersFile struct {
	SchoolFull       map[string]string      `yaml:"school_full"`
	SchoolAddress    map[string]string      `yaml:"school_address"`
	PublisherFull    map[string]string      `yaml:"publisher_full"`
	PublisherAddress []PublisherAddressRule `yaml:"publisher_address"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the lexicon built from the embedded data files. The
// embedded tables are validated once; a malformed data file is a
// programming error surfaced at first use.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultLex
}

func load() (*Lexicon, error) {
	var nouns nounsFile
	if err := unmarshalFile("data/nouns.yaml", &nouns); err != nil {
		return nil, err
	}
	var pubs publishersFile
	if err := unmarshalFile("data/publishers.yaml", &pubs); err != nil {
		return nil, err
	}

	lex := &Lexicon{
		SchoolFull:       pubs.SchoolFull,
		SchoolAddress:    pubs.SchoolAddress,
		PublisherFull:    pubs.PublisherFull,
		PublisherAddress: pubs.PublisherAddress,
	}
	lex.ProperNouns = append(lex.ProperNouns, nouns.Languages...)
	lex.ProperNouns = append(lex.ProperNouns, nouns.Countries...)
	lex.ProperNouns = append(lex.ProperNouns, nouns.Oceans...)
	lex.ProperNouns = append(lex.ProperNouns, nouns.Continents...)
	lex.ProperNouns = append(lex.ProperNouns, nouns.Cities...)

	if len(lex.ProperNouns) == 0 {
		return nil, fmt.Errorf("nouns.yaml defines no proper nouns")
	}
	for _, rule := range lex.PublisherAddress {
		if len(rule.Substrings) == 0 || rule.Address == "" {
			return nil, fmt.Errorf("publisher_address rule must have substrings and an address")
		}
	}

	escaped := make([]string, len(lex.ProperNouns))
	for i, n := range lex.ProperNouns {
		escaped[i] = regexp.QuoteMeta(n)
	}
	lex.nounPattern = regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)

	return lex, nil
}

func unmarshalFile(name string, v any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// ProperNounPattern returns the compiled alternation over all proper
// nouns, bounded on both sides.
func (l *Lexicon) ProperNounPattern() *regexp.Regexp {
	return l.nounPattern
}

// CanonicalSchool returns the canonical form of a school name, or the
// input unchanged.
func (l *Lexicon) CanonicalSchool(name string) string {
	if full, ok := l.SchoolFull[name]; ok {
		return full
	}
	return name
}

// AddressForSchool returns the city for a canonical school name.
func (l *Lexicon) AddressForSchool(school string) (string, bool) {
	addr, ok := l.SchoolAddress[school]
	return addr, ok
}

// CanonicalPublisher returns the canonical form of a publisher name, or
// the input unchanged.
func (l *Lexicon) CanonicalPublisher(name string) string {
	if full, ok := l.PublisherFull[name]; ok {
		return full
	}
	return name
}

// AddressForPublisher returns the conventional city for a publisher,
// matched by substring against the lower-cased name.
func (l *Lexicon) AddressForPublisher(publisher string) (string, bool) {
	lower := strings.ToLower(publisher)
	for _, rule := range l.PublisherAddress {
		for _, sub := range rule.Substrings {
			if strings.Contains(lower, sub) {
				return rule.Address, true
			}
		}
	}
	return "", false
}
