package edit

import (
	"strconv"
	"strings"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// NumberingError is returned when the content of an element prevents
// numbering its children.
type NumberingError struct {
	Reason string
}

func (e *NumberingError) Error() string { return e.Reason }

func refuse(reason string) error {
	return &NumberingError{Reason: reason}
}

// NumberSentences gives the sentences of cit the ids 1 to N. Translations
// are left alone. It fails without changing anything when cit holds
// anything else.
func NumberSentences(cit *xmldoc.Node) error {
	for _, child := range xmldoc.Children(cit) {
		switch {
		case xmldoc.IsText(child):
			if strings.TrimSpace(child.Data) != "" {
				return refuse("there is text outside of a sentence: " + child.Data)
			}
		case xmldoc.IsElement(child, "s"), xmldoc.IsElement(child, "tr"):
		case xmldoc.IsElement(child, ""):
			return refuse("there is an element outside of a sentence: " + xmldoc.OuterXML(child))
		default:
			return report.Internalf("unknown type of child: %d", child.Type)
		}
	}

	id := 1
	for _, s := range xmldoc.Elements(cit) {
		if xmldoc.IsElement(s, "s") {
			xmldoc.SetAttr(s, "id", strconv.Itoa(id))
			id++
		}
	}
	return nil
}

// checkForNumbering returns why the words of s cannot be numbered. When
// disallowID is set a word already carrying an id is an error, but a
// later problem in the sentence takes precedence.
func checkForNumbering(s *xmldoc.Node, disallowID bool) error {
	var err error
	for _, child := range xmldoc.Children(s) {
		switch {
		case xmldoc.IsText(child):
			if strings.TrimSpace(child.Data) != "" {
				return refuse("there is text outside of a word: " + child.Data)
			}
		case xmldoc.IsElement(child, "word"):
			if id, ok := xmldoc.Attr(child, "id"); ok && disallowID {
				err = refuse("there is a word with number " + id)
			}
		case xmldoc.IsElement(child, ""):
			return refuse("there is a foreign element: " + xmldoc.OuterXML(child))
		default:
			return report.Internalf("unknown type of child: %d", child.Type)
		}
	}
	return err
}

// NumberWords gives the words of s the ids 1 to N. Words must not be
// numbered already.
func NumberWords(s *xmldoc.Node) error {
	if err := checkForNumbering(s, true); err != nil {
		return err
	}
	for i, w := range xmldoc.Elements(s) {
		xmldoc.SetAttr(w, "id", strconv.Itoa(i+1))
	}
	return nil
}

// Renumbered tells what RenumberWords did.
type Renumbered struct {
	// Changed is set when at least one id changed.
	Changed bool

	// HeadsPresent is set when a word of the sentence has a conc.head or
	// dep.head, which renumbering does not update.
	HeadsPresent bool
}

// NeedsReview reports whether head attributes may now point to the wrong
// words.
func (r Renumbered) NeedsReview() bool {
	return r.Changed && r.HeadsPresent
}

// RenumberWords gives the words of s the ids 1 to N whatever ids they had.
func RenumberWords(s *xmldoc.Node) (Renumbered, error) {
	var r Renumbered
	if err := checkForNumbering(s, false); err != nil {
		return r, err
	}
	for i, w := range xmldoc.Elements(s) {
		id := strconv.Itoa(i + 1)
		if old, ok := xmldoc.Attr(w, "id"); !ok || old != id {
			r.Changed = true
			xmldoc.SetAttr(w, "id", id)
		}
		if xmldoc.Has(w, "conc.head") || xmldoc.Has(w, "dep.head") {
			r.HeadsPresent = true
		}
	}
	return r, nil
}

// NumberSentencesAndWords numbers the sentences of cit, then the words of
// each sentence. It may fail after numbering some of them; Session undoes
// partial work.
func NumberSentencesAndWords(cit *xmldoc.Node) error {
	if err := NumberSentences(cit); err != nil {
		return err
	}
	for _, s := range xmldoc.Elements(cit) {
		if !xmldoc.IsElement(s, "s") {
			continue
		}
		if err := NumberWords(s); err != nil {
			return err
		}
	}
	return nil
}

// UnnumberWords removes the ids of the words of s.
func UnnumberWords(s *xmldoc.Node) {
	for _, w := range xmldoc.Elements(s) {
		if xmldoc.IsElement(w, "word") {
			xmldoc.RemoveAttr(w, "id")
		}
	}
}

// HeadCompletions returns the ids of the other words of the sentence of
// word, as offered for conc.head and dep.head.
func HeadCompletions(word *xmldoc.Node) []string {
	s := xmldoc.Closest(word, "s")
	if s == nil {
		return nil
	}
	var ids []string
	for _, w := range xmldoc.Descendants(s, "word") {
		if w == word {
			continue
		}
		if id, ok := xmldoc.Attr(w, "id"); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
