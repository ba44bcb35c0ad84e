package concordance

import (
	"regexp"
	"strconv"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// space matches the characters treated as white space by the text passes.
// It is wider than RE2's \s and includes the Unicode space separators.
const space = `[\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	currentRefRe = regexp.MustCompile(`_?\d(?:\d|` + space + `)*\.` + space + `*\d(?:\d|` + space + `)*|_` + space + `*\d(?:\d|` + space + `)*`)
	currentStrip = regexp.MustCompile(`(?:_|` + space + `)+`)

	legacyRefRe = regexp.MustCompile(`\d(?:\d|` + space + `)*\.` + space + `*\d(?:\d|` + space + `)*`)
	legacyStrip = regexp.MustCompile(space + `+`)

	avagrahaRe = regexp.MustCompile(`'` + space)
)

// ExtractRef finds a verse locator in text such as "1.2" or "_3".
func ExtractRef(v Variant, text string) (string, bool) {
	re, strip := currentRefRe, currentStrip
	if v == Legacy {
		re, strip = legacyRefRe, legacyStrip
	}
	m := re.FindString(text)
	if m == "" {
		return "", false
	}
	return strip.ReplaceAllString(m, ""), true
}

// Citation is the result of BuildCitation.
type Citation struct {
	Cit *xmldoc.Node
	// Translation is nil when the line has none. It is appended to Cit
	// once the content is processed.
	Translation *xmldoc.Node
}

// BuildCitation converts one concordance line into a cit element with
// the given id.
func BuildCitation(v Variant, title Title, line *xmldoc.Node, id int, logger *report.Logger) (*Citation, error) {
	cit := xmldoc.NewElement(xmldoc.DocNamespace, "cit")

	text, ok, err := refText(v, line, nil)
	if err != nil {
		return nil, err
	}
	var ref *Ref
	if ok {
		ref = ParseRef(v, text, nil)
	}

	switch v {
	case Current:
		xmldoc.SetAttr(cit, "id", strconv.Itoa(id))
		if ref != nil {
			xmldoc.SetAttr(cit, "sid", ref.SentenceID)
		}
		setRef(v, cit, title, line, ref, logger)
	case Legacy:
		// A line without a parsable ref has already been logged as an
		// error and produces no output.
		if ref != nil {
			xmldoc.SetAttr(cit, "id", strconv.Itoa(id))
			setRef(v, cit, title, line, ref, logger)
		}
	}

	c := &Citation{Cit: cit}
	var content []*xmldoc.Node
	for _, child := range xmldoc.Children(line) {
		switch {
		case xmldoc.IsText(child):
			content = append(content, xmldoc.Clone(child))
		case xmldoc.IsElement(child, ""):
			switch name := child.Data; {
			case name == "page.number", name == "ref" && v == Legacy:
			case name == "notvariant", name == "normalised":
				content = append(content, xmldoc.Clone(child))
			case name == "tr" && v == Current:
				c.Translation = rebuildTranslation(child)
			default:
				for _, grand := range xmldoc.Children(child) {
					content = append(content, xmldoc.Clone(grand))
				}
			}
		}
	}
	xmldoc.ReplaceChildren(cit, content)
	return c, nil
}

func setRef(v Variant, cit *xmldoc.Node, title Title, line *xmldoc.Node, ref *Ref, logger *report.Logger) {
	value, ok := refValue(v, line, ref)
	if !ok {
		logger.Warn("no value for cit/@ref in title: " + title.String())
		return
	}
	xmldoc.SetAttr(cit, "ref", value)
}

// refValue tries in turn the page-verse field of the reference, the text
// of a page.number element and a locator found in the text of the line.
func refValue(v Variant, line *xmldoc.Node, ref *Ref) (string, bool) {
	if ref == nil {
		return "", false
	}
	if ref.HasPageVerse {
		return ref.PageVerse, true
	}
	if pn := firstDescendant(line, "page.number"); pn != nil {
		return xmldoc.Text(pn), true
	}
	text := xmldoc.Text(line)
	if v == Legacy {
		clone := xmldoc.Clone(line)
		if r := firstDescendant(clone, "ref"); r != nil {
			xmldoc.Remove(r)
		}
		text = xmldoc.Text(clone)
	}
	return ExtractRef(v, text)
}

func rebuildTranslation(src *xmldoc.Node) *xmldoc.Node {
	tr := xmldoc.NewElement(xmldoc.DocNamespace, "tr")
	for _, name := range xmldoc.AttrNames(src) {
		xmldoc.SetAttr(tr, name, xmldoc.Get(src, name))
	}
	xmldoc.SetText(tr, xmldoc.Text(src))
	return tr
}

// CheckCitation logs the problems of cit that the grammars cannot catch.
func CheckCitation(cit *xmldoc.Node, logger *report.Logger) {
	if avagrahaRe.MatchString(xmldoc.Text(cit)) {
		logger.Error("errant avagraha in: " + xmldoc.InnerXML(cit))
	}
}
