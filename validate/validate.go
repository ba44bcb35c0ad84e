package validate

import (
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// Error is a validation error located in the document.
type Error = report.NodeError

// Checker performs document level checks that grammars cannot express.
type Checker interface {
	Check(doc *xmldoc.Node) ([]Error, error)
}

// Validate returns the grammar errors of doc followed by those of checker,
// which may be nil. An empty result means doc is valid. The error return
// is reserved for internal failures.
func Validate(g *Grammar, doc *xmldoc.Node, checker Checker) ([]Error, error) {
	errs := g.validate(doc)
	if checker == nil {
		return errs, nil
	}
	more, err := checker.Check(doc)
	if err != nil {
		return nil, err
	}
	return append(errs, more...), nil
}

// Require is Validate turning validation errors into a "Validation Error"
// processing error.
func Require(g *Grammar, doc *xmldoc.Node, checker Checker) error {
	errs, err := Validate(g, doc, checker)
	if err != nil {
		return err
	}
	if len(errs) != 0 {
		return report.NewProcessingError(report.TitleValidation, report.Paragraphs(errs))
	}
	return nil
}
