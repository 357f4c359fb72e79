package highlights

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

// DefaultWindow is the number of runes inspected on each side of a match.
const DefaultWindow = 20

// DefaultTerms is the suspicious-term lexicon.
var DefaultTerms = []string{
	"verify", "account", "password", "login", "click", "update",
	"bank", "ssn", "urgent", "immediately", "reset", "confirm",
	"billing", "invoice", "suspended", "secure", "verify your account",
}

// DefaultTriggers must appear near a term for the match to count. Generic
// words like "account" or "update" only count next to one of these.
var DefaultTriggers = []string{
	"click", "link", "http", "urgent", "verify",
	"password", "login", "immediately", "suspended",
}

// Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	terms    []string
	triggers []string
	window   int
	matcher  *ahocorasick.Matcher
}

// NewLexicon validates and compiles a lexicon. Terms and triggers must be
// non-empty lower-case ASCII so matching can run on an offset-preserving
// lower-cased copy of the input.
func NewLexicon(terms, triggers []string, window int) (*Lexicon, error) {
	if len(terms) == 0 {
		return nil, errors.New("lexicon: no terms")
	}
	if len(triggers) == 0 {
		return nil, errors.New("lexicon: no context triggers")
	}
	if window <= 0 {
		return nil, fmt.Errorf("lexicon: context window must be > 0, got %d", window)
	}
	if err := checkEntries("term", terms); err != nil {
		return nil, err
	}
	if err := checkEntries("context trigger", triggers); err != nil {
		return nil, err
	}

	l := &Lexicon{
		terms:    append([]string(nil), terms...),
		triggers: append([]string(nil), triggers...),
		window:   window,
	}
	l.matcher = ahocorasick.NewStringMatcher(l.terms)
	return l, nil
}

// DefaultLexicon returns the built-in lexicon.
func DefaultLexicon() *Lexicon {
	l, err := NewLexicon(DefaultTerms, DefaultTriggers, DefaultWindow)
	if err != nil {
		panic(err)
	}
	return l
}

// Terms returns a copy of the lexicon terms in match order.
func (l *Lexicon) Terms() []string { return append([]string(nil), l.terms...) }

// Triggers returns a copy of the context triggers.
func (l *Lexicon) Triggers() []string { return append([]string(nil), l.triggers...) }

// Window returns the context window size in runes.
func (l *Lexicon) Window() int { return l.window }

// lexiconFile is the yaml shape accepted by LoadLexicon. Omitted keys keep
// their defaults.
type lexiconFile struct {
	Terms           []string `yaml:"terms"`
	ContextTriggers []string `yaml:"context_triggers"`
	ContextWindow   int      `yaml:"context_window"`
}

// LoadLexicon reads a yaml lexicon file.
func LoadLexicon(path string) (*Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(b)
}

// ParseLexicon parses yaml lexicon content.
func ParseLexicon(b []byte) (*Lexicon, error) {
	f := lexiconFile{
		Terms:           DefaultTerms,
		ContextTriggers: DefaultTriggers,
		ContextWindow:   DefaultWindow,
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return NewLexicon(f.Terms, f.ContextTriggers, f.ContextWindow)
}

func checkEntries(kind string, entries []string) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e == "" {
			return fmt.Errorf("lexicon: %s %d is empty", kind, i)
		}
		for j := 0; j < len(e); j++ {
			c := e[j]
			if c >= 0x80 {
				return fmt.Errorf("lexicon: %s %q is not ASCII", kind, e)
			}
			if c >= 'A' && c <= 'Z' {
				return fmt.Errorf("lexicon: %s %q must be lower case", kind, e)
			}
		}
		if strings.TrimSpace(e) != e {
			return fmt.Errorf("lexicon: %s %q has surrounding whitespace", kind, e)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("lexicon: duplicate %s %q", kind, e)
		}
		seen[e] = struct{}{}
	}
	return nil
}
