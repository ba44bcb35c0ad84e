// Package concordance turns concordance exports into annotated documents,
// one per title found in the export.
package concordance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// Variant is the shape of a concordance export.
type Variant int

const (
	// Legacy exports have a "concordance" root and lines holding a ref
	// child element.
	Legacy Variant = iota + 1
	// Current exports have an "export" root and lines carrying @refs.
	Current
)

func (v Variant) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	}
	return "unknown"
}

// Version is the value of doc/@version produced for v.
func (v Variant) Version() string {
	return strconv.Itoa(int(v))
}

func (v Variant) headerPath() string {
	if v == Legacy {
		return "/concordance/heading/"
	}
	return "/export/header/"
}

// DetectVariant returns the variant of doc from its root element.
func DetectVariant(doc *xmldoc.Node) (Variant, error) {
	root := xmldoc.Root(doc)
	switch {
	case xmldoc.IsElement(root, "export"):
		return Current, nil
	case xmldoc.IsElement(root, "concordance"):
		return Legacy, nil
	}
	return 0, report.Internalf("unknown concordance root %s", root.Data)
}

// Title is the bibliographic record shared by every line of a title.
type Title struct {
	Title     string
	Genre     string
	Author    string
	Tradition string
	School    string
	Period    string
}

func (t Title) String() string {
	return strings.Join([]string{t.Title, t.Genre, t.Author, t.Tradition}, ", ") +
		",\n" + t.School + ", " + t.Period
}

// Check returns a "Differing Title" processing error naming the first
// field in which other differs from t.
func (t Title) Check(other Title) error {
	fields := []struct {
		name     string
		one, two string
	}{
		{"titles", t.Title, other.Title},
		{"genres", t.Genre, other.Genre},
		{"authors", t.Author, other.Author},
		{"schools", t.School, other.School},
		{"periods", t.Period, other.Period},
		{"traditions", t.Tradition, other.Tradition},
	}
	for _, f := range fields {
		if f.one != f.two {
			return report.NewProcessingError(report.TitleDiffering,
				fmt.Sprintf("the title %s appears more than once, with differing values: %s differ: %s vs %s",
					t.Title, f.name, f.one, f.two))
		}
	}
	return nil
}

// Ref is a parsed line reference.
type Ref struct {
	// SentenceID is only set by current exports.
	SentenceID   string
	PageVerse    string
	HasPageVerse bool
	Title
}

var sentenceIDRe = regexp.MustCompile(`^[0-9]+$`)

// ParseRef parses the comma separated reference of a line. Problems are
// recorded on logger when it is not nil. A nil Ref means the field count
// is wrong. A current reference with a bad sentence id is still returned.
func ParseRef(v Variant, text string, logger *report.Logger) *Ref {
	parts := strings.Split(text, ",")
	lo, hi := 6, 7
	if v == Current {
		lo, hi = 7, 8
	}
	if len(parts) != lo && len(parts) != hi {
		if logger != nil {
			logger.Error(fmt.Sprintf("invalid ref: ref does not contain %d or %d parts: %s", lo, hi, text))
		}
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	ref := &Ref{}
	if v == Current {
		ref.SentenceID, parts = parts[0], parts[1:]
		if logger != nil && !validSentenceID(ref.SentenceID) {
			logger.Error("invalid ref: sentenceID is not a positive integer: " + ref.SentenceID)
		}
	}
	if len(parts) == 7 {
		ref.PageVerse, ref.HasPageVerse = parts[0], true
		parts = parts[1:]
	}
	ref.Title = Title{
		Title:     parts[0],
		Genre:     parts[1],
		Author:    parts[2],
		Tradition: parts[3],
		School:    parts[4],
		Period:    parts[5],
	}
	return ref
}

func validSentenceID(sid string) bool {
	if !sentenceIDRe.MatchString(sid) {
		return false
	}
	n, err := strconv.ParseUint(sid, 10, 64)
	// Overflow still means a positive integer.
	return err != nil || n > 0
}

// refText returns the reference text of line. ok is false for a legacy
// line without a ref element, which is logged.
func refText(v Variant, line *xmldoc.Node, logger *report.Logger) (text string, ok bool, err error) {
	if v == Current {
		refs, found := xmldoc.Attr(line, "refs")
		if !found {
			return "", false, report.Internalf("cannot get @refs, which is mandatory")
		}
		return refs, true, nil
	}

	ref := firstDescendant(line, "ref")
	if ref == nil {
		if logger != nil {
			logger.Error("invalid line: line without a ref: " + xmldoc.OuterXML(line))
		}
		return "", false, nil
	}
	return xmldoc.Text(ref), true, nil
}

func firstDescendant(n *xmldoc.Node, name string) *xmldoc.Node {
	found := xmldoc.Descendants(n, name)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}
