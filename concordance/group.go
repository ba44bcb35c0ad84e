package concordance

import (
	"strings"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// Group is the set of lines sharing a title.
type Group struct {
	Title Title
	Lines []*xmldoc.Node
}

// Header holds the export wide values used to name and fill outputs.
type Header struct {
	Query  string
	Corpus string
	// Lemma is empty for legacy exports.
	Lemma string
}

// CorpusBase returns the last path component of the corpus.
func (h Header) CorpusBase() string {
	return h.Corpus[strings.LastIndex(h.Corpus, "/")+1:]
}

// ReadHeader extracts the header of a concordance export.
func ReadHeader(v Variant, doc *xmldoc.Node) (Header, error) {
	var h Header
	var err error
	if h.Query, err = textAt(doc, v.headerPath()+"query"); err != nil {
		return h, err
	}
	if h.Corpus, err = textAt(doc, v.headerPath()+"corpus"); err != nil {
		return h, err
	}
	if v == Current {
		if h.Lemma, err = textAt(doc, "/export/lemma"); err != nil {
			return h, err
		}
	}
	return h, nil
}

func textAt(doc *xmldoc.Node, expr string) (string, error) {
	n, err := xmldoc.FindOne(doc, expr)
	if err != nil {
		return "", err
	}
	if n == nil {
		return "", report.Internalf("missing %s", expr)
	}
	return xmldoc.Text(n), nil
}

// GroupTitles groups the lines of doc by title in first-seen order.
// Malformed references are logged and their lines left out. A title seen
// twice with differing records is a "Differing Title" processing error.
func GroupTitles(v Variant, doc *xmldoc.Node, logger *report.Logger) ([]*Group, error) {
	var groups []*Group
	byTitle := map[string]*Group{}

	for _, line := range xmldoc.Descendants(doc, "line") {
		text, ok, err := refText(v, line, logger)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ref := ParseRef(v, text, logger)
		if ref == nil {
			continue
		}

		g, seen := byTitle[ref.Title.Title]
		if !seen {
			g = &Group{Title: ref.Title}
			byTitle[ref.Title.Title] = g
			groups = append(groups, g)
		} else if err := g.Title.Check(ref.Title); err != nil {
			return nil, err
		}
		g.Lines = append(g.Lines, line)
	}
	return groups, nil
}
