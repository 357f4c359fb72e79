package highlights

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/phishshield/phishscore/internal/types"
)

const (
	BaseProbability = 0.02
	PerMatchWeight  = 0.10
	MatchCap        = 0.90
	URLBonus        = 0.10
	URLCap          = 0.95
	// NeutralBaseline is returned whenever no match survives the context
	// filter, URL or not.
	NeutralBaseline = 0.05
)

// Score runs the default lexicon over text.
func Score(text string) (float64, []types.Highlight) {
	return defaultLexicon.Score(text)
}

var defaultLexicon = DefaultLexicon()

// Score returns the heuristic phishing probability of text together with
// the accepted matches. Highlight offsets index into text itself.
func (l *Lexicon) Score(text string) (float64, []types.Highlight) {
	if text == "" {
		return NeutralBaseline, nil
	}
	lower := lowerASCII(text)

	var out []types.Highlight
	for _, idx := range l.present(lower) {
		term := l.terms[idx]
		for from := 0; ; {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(term)
			from = end
			if !l.hasTrigger(lower, start, end) {
				continue
			}
			out = append(out, types.Highlight{
				Start: start,
				End:   end,
				Text:  text[start:end],
				Label: types.LabelSuspicious,
			})
		}
	}

	count := len(out)
	p := clamp(BaseProbability+PerMatchWeight*float64(count), 0, MatchCap)
	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") {
		p = clamp(p+URLBonus, 0, URLCap)
	}
	// The URL bonus alone never lifts a message above baseline.
	if count == 0 {
		p = NeutralBaseline
	}
	return p, out
}

// present returns the indexes of terms occurring in lower, in lexicon order.
func (l *Lexicon) present(lower string) []int {
	hits := l.matcher.MatchThreadSafe([]byte(lower))
	slices.Sort(hits)
	return slices.Compact(hits)
}

// hasTrigger reports whether the window around [start,end) contains a
// context trigger. The window includes the match itself.
func (l *Lexicon) hasTrigger(lower string, start, end int) bool {
	lo := start
	for n := 0; n < l.window && lo > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(lower[:lo])
		lo -= size
	}
	hi := end
	for n := 0; n < l.window && hi < len(lower); n++ {
		_, size := utf8.DecodeRuneInString(lower[hi:])
		hi += size
	}
	win := lower[lo:hi]
	for _, t := range l.triggers {
		if strings.Contains(win, t) {
			return true
		}
	}
	return false
}

// lowerASCII folds A-Z only, so byte offsets in the result match s.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
