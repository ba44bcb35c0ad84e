package validate

import "github.com/mangalam-research/mmwp/xmldoc"

// Registry holds the compiled grammars. Build it once with NewRegistry
// and share it; grammars are never modified after construction.
type Registry struct {
	// Concordance accepts both the legacy and the current export shapes.
	Concordance *Grammar
	Annotated   *Grammar
	Unannotated *Grammar
	SemInfo     *Grammar
}

// NewRegistry builds every grammar.
func NewRegistry() *Registry {
	return &Registry{
		Concordance: concordanceGrammar(),
		Annotated:   docGrammar("doc-annotated", annotatedWordAttrs),
		Unannotated: docGrammar("doc-unannotated", []string{"lem"}),
		SemInfo:     semInfoGrammar(),
	}
}

func attrs(required []string, optional ...string) map[string]bool {
	m := map[string]bool{}
	for _, a := range required {
		m[a] = true
	}
	for _, a := range optional {
		m[a] = false
	}
	return m
}

func concordanceGrammar() *Grammar {
	return NewChoice("concordance", currentConcordanceGrammar(), legacyConcordanceGrammar())
}

func currentConcordanceGrammar() *Grammar {
	return NewGrammar("concordance-current", "", []string{"export"},
		&Element{
			Name:     "export",
			Children: []string{"header", "lemma", "concordance"},
			Required: []string{"header", "lemma", "concordance"},
		},
		&Element{Name: "header", AnyAttrs: true, Open: true, Required: []string{"query", "corpus"}},
		&Element{Name: "lemma", Text: true},
		&Element{Name: "concordance", AnyAttrs: true, Children: []string{"line"}},
		&Element{Name: "line", Attrs: attrs([]string{"refs"}), AnyAttrs: true, Open: true},
	)
}

// Legacy lines without a ref are reported while grouping titles, not
// here.
func legacyConcordanceGrammar() *Grammar {
	return NewGrammar("concordance-legacy", "", []string{"concordance"},
		&Element{
			Name:     "concordance",
			AnyAttrs: true,
			Children: []string{"heading", "line"},
			Required: []string{"heading"},
		},
		&Element{Name: "heading", AnyAttrs: true, Open: true, Required: []string{"query", "corpus"}},
		&Element{Name: "line", AnyAttrs: true, Open: true},
	)
}

var annotatedWordAttrs = []string{
	"lem", "case", "number",
	"sem.cat", "sem.field", "sem.role", "sem.pros", "uncertainty",
	"dep.rel", "dep.head", "conc.rel", "conc.head",
}

func docGrammar(name string, wordAttrs []string) *Grammar {
	return NewGrammar(name, xmldoc.DocNamespace, []string{"doc"},
		&Element{
			Name: "doc",
			Attrs: attrs(
				[]string{"version", "title", "genre", "author", "tradition", "school", "period"},
				"lem", "lemCognates"),
			Children: []string{"cit"},
		},
		&Element{
			Name:     "cit",
			Attrs:    attrs([]string{"id"}, "ref", "sid"),
			Children: []string{"s", "tr"},
			Required: []string{"s"},
		},
		&Element{
			Name:     "s",
			Attrs:    attrs([]string{"id"}),
			Children: []string{"word"},
			Text:     true,
		},
		&Element{
			Name:  "word",
			Attrs: attrs([]string{"id"}, wordAttrs...),
			Text:  true,
		},
		&Element{Name: "tr", AnyAttrs: true, Text: true},
	)
}

func semInfoGrammar() *Grammar {
	return NewGrammar("sem-info", xmldoc.SemInfoNamespace, []string{"sem.info"},
		&Element{Name: "sem.info", Children: []string{"tuple"}},
		&Element{
			Name:  "tuple",
			Attrs: attrs([]string{"freq"}, "lem", "sem.field", "sem.cat"),
		},
	)
}
