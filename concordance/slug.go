package concordance

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var symbolNames = map[rune]string{
	'<': "less",
	'>': "greater",
	'&': "and",
	'|': "or",
	'$': "dollar",
	'%': "percent",
	'+': "plus",
	'∞': "infinity",
	'♥': "love",
	'€': "euro",
	'£': "pound",
}

var (
	slugDropRe = regexp.MustCompile(`[^\w\s\-~]`)
	slugJoinRe = regexp.MustCompile(`[-\s]+`)
)

// Slug reduces s to a name safe for files: diacritics are stripped, a few
// symbols are spelled out, other punctuation is dropped and runs of space
// and dashes become replacement.
func Slug(s, replacement string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	for _, r := range plain {
		if name, ok := symbolNames[r]; ok {
			b.WriteString(name)
			continue
		}
		b.WriteRune(r)
	}

	out := slugDropRe.ReplaceAllString(b.String(), "")
	out = strings.TrimSpace(out)
	out = slugJoinRe.ReplaceAllString(out, replacement)
	return strings.TrimSuffix(out, replacement)
}
