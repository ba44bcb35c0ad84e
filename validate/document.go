package validate

import (
	"errors"
	"strings"

	"github.com/mangalam-research/mmwp/compound"
	"github.com/mangalam-research/mmwp/depcheck"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// DocumentChecker checks annotated documents: compound markers agree
// between neighbouring words, both trees of every sentence are well
// formed and citation ids are unique.
type DocumentChecker struct{}

var _ Checker = DocumentChecker{}

func (DocumentChecker) Check(doc *xmldoc.Node) ([]Error, error) {
	var errs []Error
	for _, s := range xmldoc.Descendants(doc, "s") {
		more, err := checkSentence(s)
		if err != nil {
			return nil, err
		}
		errs = append(errs, more...)
	}

	seen := map[string]bool{}
	for _, cit := range xmldoc.Descendants(doc, "cit") {
		id, ok := xmldoc.Attr(cit, "id")
		if !ok {
			continue
		}
		if seen[id] {
			errs = append(errs, report.At(cit, "duplicate citation id: "+id))
		}
		seen[id] = true
	}
	return errs, nil
}

func checkSentence(s *xmldoc.Node) ([]Error, error) {
	var errs []Error
	checkers := make([]*depcheck.Checker, len(depcheck.Kinds))
	for i, kind := range depcheck.Kinds {
		checkers[i] = depcheck.New(kind, s)
	}

	words := xmldoc.Elements(s)
	for i, w := range words {
		if w.Data != "word" {
			continue
		}
		text := xmldoc.Text(w)
		if strings.HasSuffix(text, compound.Dash) {
			switch {
			case i == len(words)-1:
				errs = append(errs, report.At(w, "word is compounded with next but is at end of sentence: "+text))
			case !strings.HasPrefix(xmldoc.Text(words[i+1]), compound.Dash):
				errs = append(errs, report.At(w, "word is compounded with next but next word is not compounded: "+text))
			}
		}
		if strings.HasPrefix(text, compound.Dash) {
			switch {
			case i == 0:
				errs = append(errs, report.At(w, "word is compounded with previous but is at start of sentence: "+text))
			case !strings.HasSuffix(xmldoc.Text(words[i-1]), compound.Dash):
				errs = append(errs, report.At(w, "word is compounded with previous but previous word is not compounded: "+text))
			}
		}

		for _, c := range checkers {
			err := c.AddNode(w)
			var dup *depcheck.DuplicateError
			switch {
			case errors.As(err, &dup):
				errs = append(errs, report.At(w, dup.Error()))
			case err != nil:
				return nil, err
			}
		}
	}

	for _, c := range checkers {
		errs = append(errs, c.Check()...)
	}
	return errs, nil
}
