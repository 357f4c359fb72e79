// Package normalize turns raw message text into the token stream the trained
// classifier was fit on. The output is never used for highlight offsets.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// URLToken replaces every URL-like run. The training export substitutes the
// same token, so keep the two in sync.
const URLToken = "url"

var (
	reURL = regexp.MustCompile(`[a-z][a-z0-9+.\-]*://\S+`)

	// fullwidth letters and ligatures decompose under NFKD; accents are dropped.
	fold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Text lowercases s, replaces URLs with URLToken, drops everything outside
// [a-z0-9] and whitespace, and collapses whitespace. Text(Text(s)) == Text(s).
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	lower := strings.ToLower(folded)
	lower = reURL.ReplaceAllString(lower, " "+URLToken+" ")

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits normalized text on whitespace.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
