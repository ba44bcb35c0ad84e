package export

import (
	"regexp"
	"strings"

	"github.com/mangalam-research/mmwp/compound"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

var xmlExtRe = regexp.MustCompile(`\.xml$`)

// CoNLLName is the name of the CoNLL text extracted from the document
// called name.
func CoNLLName(name string) string {
	return xmlExtRe.ReplaceAllLiteralString(name, ".txt")
}

// conllAttributes are the columns following id, text and raw.
var conllAttributes = []string{
	"lem", "case", "number", "sem.cat", "sem.field", "uncertainty",
	"conc.rel", "conc.head", "sem.role", "dep.rel", "dep.head",
}

// Word is a word of a sentence linked to its element neighbours.
type Word struct {
	El   *xmldoc.Node
	Prev *Word
	Next *Word
}

func (w *Word) text() string { return xmldoc.Text(w.El) }

// nextRaw is the text of w fused with the following words as long as
// they are joined by compound dashes. A missing neighbour adds nothing.
func (w *Word) nextRaw() string {
	if w == nil {
		return ""
	}
	text := w.text()
	if strings.HasSuffix(text, compound.Dash) {
		return strings.TrimSuffix(text, compound.Dash) + w.Next.nextRaw()
	}
	return text
}

// prevRaw is nextRaw going backwards.
func (w *Word) prevRaw() string {
	if w == nil {
		return ""
	}
	text := w.text()
	if strings.HasPrefix(text, compound.Dash) {
		return w.Prev.prevRaw() + strings.TrimPrefix(text, compound.Dash)
	}
	return text
}

// Raw returns the undivided token a compound part belongs to. It is
// empty for words that are not part of a compound.
func (w *Word) Raw() string {
	if w == nil {
		return ""
	}
	text := w.text()
	withPrev := strings.HasPrefix(text, compound.Dash)
	withNext := strings.HasSuffix(text, compound.Dash)
	switch {
	case withPrev && withNext:
		if len(text) < 2 {
			return w.Prev.prevRaw() + w.Next.nextRaw()
		}
		return w.Prev.prevRaw() + text[1:len(text)-1] + w.Next.nextRaw()
	case withPrev:
		return w.prevRaw()
	case withNext:
		return w.nextRaw()
	}
	return ""
}

// LinkWords returns the words of s with their neighbours set. The
// neighbours are the adjacent element siblings, found by id among the
// words of s.
func LinkWords(s *xmldoc.Node) ([]*Word, error) {
	var words []*Word
	byID := map[string]*Word{}
	for _, el := range xmldoc.Descendants(s, "word") {
		id, ok := xmldoc.Attr(el, "id")
		if !ok {
			return nil, report.Internalf("no id available")
		}
		w := &Word{El: el}
		words = append(words, w)
		byID[id] = w
	}
	for _, w := range words {
		if prev := xmldoc.PrevElement(w.El); prev != nil {
			w.Prev = byID[xmldoc.Get(prev, "id")]
		}
		if next := xmldoc.NextElement(w.El); next != nil {
			w.Next = byID[xmldoc.Get(next, "id")]
		}
	}
	return words, nil
}

// CoNLL returns the linear text form of doc, an annotated document: the
// start tag of the doc element, then one block per sentence with one tab
// separated line per word.
func CoNLL(doc *xmldoc.Node) (string, error) {
	var b strings.Builder
	roots := xmldoc.Descendants(doc, "doc")
	if root := xmldoc.Root(doc); xmldoc.IsElement(root, "doc") {
		roots = append([]*xmldoc.Node{root}, roots...)
	}
	if len(roots) == 0 {
		return "", report.Internalf("no doc element")
	}
	b.WriteString(xmldoc.OpeningTag(roots[0]))
	b.WriteString("\n")

	for _, s := range xmldoc.Descendants(doc, "s") {
		b.WriteString("<s>\n")
		words, err := LinkWords(s)
		if err != nil {
			return "", err
		}
		for _, w := range words {
			fields := []string{xmldoc.Get(w.El, "id"), w.text(), w.Raw()}
			for _, name := range conllAttributes {
				fields = append(fields, xmldoc.Get(w.El, name))
			}
			b.WriteString(strings.Join(fields, "\t"))
			b.WriteString("\n")
		}
		b.WriteString("</s>\n")
	}
	b.WriteString("</doc>\n")
	return b.String(), nil
}
