// Package validate checks documents against the structural grammars of
// the formats handled by mmwp.
package validate

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/mangalam-research/mmwp/xmldoc"
)

// Element is the rule for one element of a grammar.
type Element struct {
	Name string
	// Attrs maps allowed attribute names to whether they are required.
	Attrs map[string]bool
	// AnyAttrs allows attributes not listed in Attrs.
	AnyAttrs bool
	// Children lists the element names allowed as children.
	Children []string
	// Required lists the children that must appear at least once.
	Required []string
	// Text allows text other than white space.
	Text bool
	// Open elements accept any content; only their attributes and
	// Required children are checked.
	Open bool
}

// Grammar is a set of element rules in one namespace.
type Grammar struct {
	Name      string
	Namespace string
	Roots     []string
	Elements  map[string]*Element

	// Alternatives are tried in order; the first one whose roots accept
	// the document root validates the document.
	Alternatives []*Grammar
}

// NewGrammar indexes elements by name.
func NewGrammar(name, ns string, roots []string, elements ...*Element) *Grammar {
	g := &Grammar{Name: name, Namespace: ns, Roots: roots, Elements: map[string]*Element{}}
	for _, el := range elements {
		g.Elements[el.Name] = el
	}
	return g
}

// NewChoice returns a grammar accepting any of alternatives. Its roots
// are those of the alternatives, in order, and are reported when no
// alternative accepts the document root.
func NewChoice(name string, alternatives ...*Grammar) *Grammar {
	g := &Grammar{Name: name, Elements: map[string]*Element{}, Alternatives: alternatives}
	for _, alt := range alternatives {
		g.Roots = append(g.Roots, alt.Roots...)
	}
	g.Namespace = alternatives[0].Namespace
	return g
}

// QName formats a name the way grammar messages show it.
func QName(ns, name string) string {
	b, _ := json.Marshal(struct {
		NS   string `json:"ns"`
		Name string `json:"name"`
	}{ns, name})
	return string(b)
}

func (g *Grammar) validate(doc *xmldoc.Node) []Error {
	root := xmldoc.Root(doc)
	for _, alt := range g.Alternatives {
		if root != nil && alt.allowed(root, alt.Roots) {
			return alt.validate(doc)
		}
	}

	var errs []Error
	at := func(n *xmldoc.Node, msg string) {
		errs = append(errs, Error{Message: msg, Node: n.Parent, Index: xmldoc.Offset(n)})
	}

	if root == nil || !g.allowed(root, g.Roots) {
		if root != nil {
			at(root, "tag not allowed here: "+QName(root.NamespaceURI, root.Data))
		}
		errs = append(errs, Error{Message: "tag required: " + QName(g.Namespace, g.Roots[0]), Node: doc, Index: 0})
		return errs
	}

	var walk func(n *xmldoc.Node)
	walk = func(n *xmldoc.Node) {
		rule := g.Elements[n.Data]
		for _, name := range xmldoc.AttrNames(n) {
			if isNamespaceDecl(name) {
				continue
			}
			if _, ok := rule.Attrs[name]; !ok && !rule.AnyAttrs {
				at(n, "attribute not allowed here: "+QName("", name))
			}
		}
		for _, name := range sortedRequired(rule.Attrs) {
			if !xmldoc.Has(n, name) {
				at(n, "attribute required: "+QName("", name))
			}
		}
		seen := map[string]bool{}
		for _, child := range xmldoc.Children(n) {
			switch {
			case rule.Open:
				if xmldoc.IsElement(child, "") {
					seen[child.Data] = true
				}
			case xmldoc.IsText(child):
				if !rule.Text && strings.TrimSpace(child.Data) != "" {
					at(child, "text not allowed here")
				}
			case xmldoc.IsElement(child, ""):
				if !g.allowed(child, rule.Children) {
					at(child, "tag not allowed here: "+QName(child.NamespaceURI, child.Data))
					continue
				}
				seen[child.Data] = true
				walk(child)
			}
		}
		for _, name := range rule.Required {
			if !seen[name] {
				errs = append(errs, Error{
					Message: "tag required: " + QName(g.Namespace, name),
					Node:    n,
					Index:   len(xmldoc.Children(n)),
				})
			}
		}
	}
	walk(root)
	return errs
}

func (g *Grammar) allowed(n *xmldoc.Node, names []string) bool {
	if n.NamespaceURI != g.Namespace {
		return false
	}
	if _, ok := g.Elements[n.Data]; !ok {
		return false
	}
	for _, name := range names {
		if name == n.Data {
			return true
		}
	}
	return false
}

func isNamespaceDecl(name string) bool {
	return name == "xmlns" || strings.HasPrefix(name, "xmlns:")
}

// sortedRequired returns the required attribute names in a stable order.
func sortedRequired(attrs map[string]bool) []string {
	var names []string
	for name, req := range attrs {
		if req {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
