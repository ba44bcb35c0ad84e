package edit

import (
	"fmt"
	"log/slog"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/validate"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// Session holds an annotated document being edited. Every operation runs
// on a copy that replaces the document only when the operation succeeds.
type Session struct {
	doc      *xmldoc.Node
	registry *validate.Registry
	dirty    bool
}

// NewSession starts editing doc.
func NewSession(doc *xmldoc.Node, registry *validate.Registry) *Session {
	if registry == nil {
		registry = validate.NewRegistry()
	}
	return &Session{doc: doc, registry: registry}
}

// Document returns the current state of the document.
func (s *Session) Document() *xmldoc.Node { return s.doc }

// Dirty reports whether the document changed since the last MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) MarkSaved() { s.dirty = false }

// apply runs fn on a copy of the document and commits the copy if fn
// succeeds.
func (s *Session) apply(fn func(doc *xmldoc.Node) error) error {
	staged := xmldoc.Clone(s.doc)
	if err := fn(staged); err != nil {
		slog.Debug("edit aborted", "err", err)
		return err
	}
	s.doc = staged
	s.dirty = true
	return nil
}

// Cit returns the citation of doc with the given id.
func Cit(doc *xmldoc.Node, citID string) (*xmldoc.Node, error) {
	for _, cit := range xmldoc.Descendants(doc, "cit") {
		if xmldoc.Get(cit, "id") == citID {
			return cit, nil
		}
	}
	return nil, fmt.Errorf("no citation with id %s", citID)
}

// Sentence returns the sentence sID of the citation citID.
func Sentence(doc *xmldoc.Node, citID, sID string) (*xmldoc.Node, error) {
	cit, err := Cit(doc, citID)
	if err != nil {
		return nil, err
	}
	for _, sent := range xmldoc.Elements(cit) {
		if xmldoc.IsElement(sent, "s") && xmldoc.Get(sent, "id") == sID {
			return sent, nil
		}
	}
	return nil, fmt.Errorf("no sentence with id %s in citation %s", sID, citID)
}

func (s *Session) NumberSentences(citID string) error {
	return s.apply(func(doc *xmldoc.Node) error {
		cit, err := Cit(doc, citID)
		if err != nil {
			return err
		}
		return NumberSentences(cit)
	})
}

func (s *Session) NumberSentencesAndWords(citID string) error {
	return s.apply(func(doc *xmldoc.Node) error {
		cit, err := Cit(doc, citID)
		if err != nil {
			return err
		}
		return NumberSentencesAndWords(cit)
	})
}

func (s *Session) NumberWords(citID, sID string) error {
	return s.apply(func(doc *xmldoc.Node) error {
		sent, err := Sentence(doc, citID, sID)
		if err != nil {
			return err
		}
		return NumberWords(sent)
	})
}

func (s *Session) RenumberWords(citID, sID string) (Renumbered, error) {
	var r Renumbered
	err := s.apply(func(doc *xmldoc.Node) error {
		sent, err := Sentence(doc, citID, sID)
		if err != nil {
			return err
		}
		r, err = RenumberWords(sent)
		return err
	})
	return r, err
}

func (s *Session) UnnumberWords(citID, sID string) error {
	return s.apply(func(doc *xmldoc.Node) error {
		sent, err := Sentence(doc, citID, sID)
		if err != nil {
			return err
		}
		UnnumberWords(sent)
		return nil
	})
}

// Check validates the document as an annotated document.
func (s *Session) Check() ([]validate.Error, error) {
	return validate.Validate(s.registry.Annotated, s.doc, validate.DocumentChecker{})
}

// Bytes serializes the document. It refuses an invalid document.
func (s *Session) Bytes() ([]byte, error) {
	errs, err := s.Check()
	if err != nil {
		return nil, err
	}
	if len(errs) != 0 {
		return nil, report.NewProcessingError(report.TitleValidation, report.Paragraphs(errs))
	}
	return xmldoc.Serialize(s.doc), nil
}
