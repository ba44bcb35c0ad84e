// Package compound handles words written as several parts joined by "-".
package compound

import (
	"strings"

	"github.com/mangalam-research/mmwp/xmldoc"
)

// Dash delimits the parts of a compound.
const Dash = "-"

// IsValid reports whether word is in a shape that can be split as a
// compound: non empty, no leading or trailing dash, no dash run.
func IsValid(word *xmldoc.Node) bool {
	text := xmldoc.Text(word)
	return text != "" &&
		!strings.HasPrefix(text, Dash) &&
		!strings.HasSuffix(text, Dash) &&
		!strings.Contains(text, "--")
}

// WordsFromParts returns one word element per non-empty part. Every part
// but the first gets a leading dash and every part but the last a
// trailing one. Empty parts are dropped but keep their position.
func WordsFromParts(parts []string) []*xmldoc.Node {
	var words []*xmldoc.Node
	last := len(parts) - 1
	for ix, part := range parts {
		if part == "" {
			continue
		}
		var b strings.Builder
		if ix != 0 {
			b.WriteString(Dash)
		}
		b.WriteString(part)
		if ix != last {
			b.WriteString(Dash)
		}
		word := xmldoc.NewElement(xmldoc.DocNamespace, "word")
		xmldoc.SetText(word, b.String())
		words = append(words, word)
	}
	return words
}

// Split splits the text of a token on dashes and returns the word
// elements for it.
func Split(token string) []*xmldoc.Node {
	return WordsFromParts(strings.Split(token, Dash))
}

// SetLemFromPart sets lem on a non-final part of a compound, unless lem
// is already set.
func SetLemFromPart(word *xmldoc.Node) {
	if xmldoc.Has(word, "lem") {
		return
	}
	text := xmldoc.Text(word)
	if !strings.HasSuffix(text, Dash) {
		return
	}
	lem := strings.TrimPrefix(strings.TrimSuffix(text, Dash), Dash)
	xmldoc.SetAttr(word, "lem", lem)
}
