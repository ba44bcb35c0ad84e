package concordance

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mangalam-research/mmwp/compound"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

var (
	dashRunRe  = regexp.MustCompile(space + `*-(?:-|` + space + `)*`)
	spaceRunRe = regexp.MustCompile(space + `+`)
	blankRe    = regexp.MustCompile(`^` + space + `+$`)
)

func newWord(text string) *xmldoc.Node {
	w := xmldoc.NewElement(xmldoc.DocNamespace, "word")
	xmldoc.SetText(w, text)
	return w
}

// ConvertMarked turns the notvariant and normalised children of cit into
// words. The lemma of both is their text; the text of a normalised word
// is its @orig.
func ConvertMarked(cit *xmldoc.Node) error {
	var out []*xmldoc.Node
	for _, child := range xmldoc.Children(cit) {
		if !xmldoc.IsElement(child, "") {
			out = append(out, child)
			continue
		}
		var word *xmldoc.Node
		switch child.Data {
		case "notvariant":
			word = newWord(xmldoc.Text(child))
		case "normalised":
			word = newWord(xmldoc.Get(child, "orig"))
		default:
			return report.Internalf("unexpected element %s", child.Data)
		}
		xmldoc.SetAttr(word, "lem", xmldoc.Text(child))
		out = append(out, word)
	}
	xmldoc.ReplaceChildren(cit, out)
	return nil
}

// CleanText substitutes the characters the annotated format does not
// use in a single run of text: "/" becomes "|", "**" goes, a dash with
// surrounding space collapses to one dash and space runs to one space.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "/", "|")
	text = strings.ReplaceAll(text, "**", "")
	text = dashRunRe.ReplaceAllString(text, "-")
	return spaceRunRe.ReplaceAllString(text, " ")
}

// Normalize merges adjacent text nodes under n and cleans every text node
// with CleanText, dropping those that end up empty.
func Normalize(n *xmldoc.Node) error {
	xmldoc.Normalize(n)
	return cleanTree(n)
}

func cleanTree(n *xmldoc.Node) error {
	var out []*xmldoc.Node
	for _, child := range xmldoc.Children(n) {
		switch {
		case xmldoc.IsText(child):
			text := CleanText(child.Data)
			if text == "" {
				continue
			}
			out = append(out, xmldoc.NewText(text))
		case xmldoc.IsElement(child, ""):
			if err := cleanTree(child); err != nil {
				return err
			}
			out = append(out, child)
		default:
			return report.Internalf("unexpected node type: %d", child.Type)
		}
	}
	xmldoc.ReplaceChildren(n, out)
	return nil
}

// Segment breaks the top level text of cit into word elements. Single
// spaces between tokens are kept as text; tokens holding dashes become
// one word per compound part.
func Segment(cit *xmldoc.Node) {
	var out []*xmldoc.Node
	for _, child := range xmldoc.Children(cit) {
		if !xmldoc.IsText(child) || blankRe.MatchString(child.Data) {
			out = append(out, child)
			continue
		}
		for i, token := range strings.Split(child.Data, " ") {
			if i > 0 {
				out = append(out, xmldoc.NewText(" "))
			}
			switch {
			case token == "":
			case !strings.Contains(token, compound.Dash):
				out = append(out, newWord(token))
			default:
				out = append(out, compound.Split(token)...)
			}
		}
	}
	xmldoc.ReplaceChildren(cit, out)
}

// FixDashes makes compound markers agree between neighbouring words: a
// word ending with a dash gets a following word starting with one and
// the other way around. line is only used in error messages.
func FixDashes(cit, line *xmldoc.Node) error {
	words := xmldoc.Elements(cit)
	for i, w := range words {
		if w.Data != "word" {
			return report.Internalf("unexpected element: %s", w.Data)
		}
		var next *xmldoc.Node
		if i+1 < len(words) {
			next = words[i+1]
		}

		text := xmldoc.Text(w)
		if strings.HasSuffix(text, compound.Dash) {
			if next == nil {
				return report.NewProcessingError(report.TitleStructural,
					"word with trailing dash has no following sibling: "+xmldoc.InnerXML(line))
			}
			if nt := xmldoc.Text(next); !strings.HasPrefix(nt, compound.Dash) {
				xmldoc.SetText(next, compound.Dash+nt)
			}
		} else if next != nil && strings.HasPrefix(xmldoc.Text(next), compound.Dash) {
			xmldoc.SetText(w, text+compound.Dash)
		}

		if strings.HasPrefix(text, compound.Dash) && i == 0 {
			return report.NewProcessingError(report.TitleStructural,
				"word with leading dash has no preceding sibling: "+xmldoc.InnerXML(line))
		}
	}
	return nil
}

// PopulateLem sets lem on the non-final parts of compounds.
func PopulateLem(cit *xmldoc.Node) error {
	for _, w := range xmldoc.Elements(cit) {
		if w.Data != "word" {
			return report.Internalf("unexpected element: %s", w.Data)
		}
		compound.SetLemFromPart(w)
	}
	return nil
}

// WrapInSentence moves the whole content of cit into a single s with id 1
// and numbers its words from 1.
func WrapInSentence(cit *xmldoc.Node) *xmldoc.Node {
	s := xmldoc.NewElement(xmldoc.DocNamespace, "s")
	xmldoc.SetAttr(s, "id", "1")
	xmldoc.ReplaceChildren(s, xmldoc.Children(cit))
	xmldoc.ReplaceChildren(cit, []*xmldoc.Node{s})

	id := 1
	for _, w := range xmldoc.Elements(s) {
		if w.Data == "word" {
			xmldoc.SetAttr(w, "id", strconv.Itoa(id))
			id++
		}
	}
	return s
}
