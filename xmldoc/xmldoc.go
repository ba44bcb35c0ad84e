// Package xmldoc holds the tree helpers shared by the transforms.
//
// Documents are plain xmlquery trees. Every structural edit made by the
// pipeline goes through the functions of this package so that sibling
// links stay consistent.
package xmldoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// DocNamespace is the namespace of annotated documents.
	DocNamespace = "http://mangalamresearch.org/ns/mmwp/doc"

	// SemInfoNamespace is the namespace of semantic information summaries.
	SemInfoNamespace = "http://mangalamresearch.org/ns/mmwp/sem.info"
)

// Node is a node of a parsed or generated document.
type Node = xmlquery.Node

// Parse parses XML data and returns the document node.
func Parse(r io.Reader) (*Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if Root(doc) == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	return doc, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// NewDocument returns a document node holding root.
func NewDocument(root *Node) *Node {
	doc := &Node{Type: xmlquery.DocumentNode}
	Append(doc, root)
	return doc
}

// Root returns the first element child of a document node, or nil.
func Root(doc *Node) *Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// NewElement creates a detached element in namespace ns.
func NewElement(ns, name string) *Node {
	return &Node{Type: xmlquery.ElementNode, Data: name, NamespaceURI: ns}
}

// NewRootElement creates a detached element that declares ns as its
// default namespace.
func NewRootElement(ns, name string) *Node {
	el := NewElement(ns, name)
	if ns != "" {
		SetAttr(el, "xmlns", ns)
	}
	return el
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: xmlquery.TextNode, Data: data}
}

// IsElement reports whether n is an element, with local name name when
// name is not empty.
func IsElement(n *Node, name string) bool {
	if n == nil || n.Type != xmlquery.ElementNode {
		return false
	}
	return name == "" || n.Data == name
}

// IsText reports whether n is a text node.
func IsText(n *Node) bool {
	return n != nil && n.Type == xmlquery.TextNode
}

// Attr returns the value of attribute name and whether it is present.
func Attr(n *Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if attrName(a) == name {
			return a.Value, true
		}
	}
	return "", false
}

// Get returns the value of attribute name, or "" when absent.
func Get(n *Node, name string) string {
	v, _ := Attr(n, name)
	return v
}

// Has reports whether attribute name is present.
func Has(n *Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// SetAttr sets attribute name, adding it at the end when absent.
func SetAttr(n *Node, name, value string) {
	for i, a := range n.Attr {
		if attrName(a) == name {
			n.Attr[i].Value = value
			return
		}
	}
	xmlquery.AddAttr(n, name, value)
}

// RemoveAttr removes attribute name if present.
func RemoveAttr(n *Node, name string) {
	for i, a := range n.Attr {
		if attrName(a) == name {
			n.Attr = append(n.Attr[:i:i], n.Attr[i+1:]...)
			return
		}
	}
}

// AttrNames returns the qualified attribute names of n in order.
func AttrNames(n *Node) []string {
	names := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		names = append(names, attrName(a))
	}
	return names
}

func attrName(a xmlquery.Attr) string {
	if a.Name.Space != "" {
		return a.Name.Space + ":" + a.Name.Local
	}
	return a.Name.Local
}

// Children returns the child nodes of n.
func Children(n *Node) []*Node {
	var out []*Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, child)
	}
	return out
}

// Elements returns the element children of n.
func Elements(n *Node) []*Node {
	var out []*Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// NextElement returns the next element sibling of n, or nil.
func NextElement(n *Node) *Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == xmlquery.ElementNode {
			return s
		}
	}
	return nil
}

// PrevElement returns the previous element sibling of n, or nil.
func PrevElement(n *Node) *Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == xmlquery.ElementNode {
			return s
		}
	}
	return nil
}

// Descendants returns the descendant elements of n named name (any name
// when empty) in document order. n itself is not included.
func Descendants(n *Node, name string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for child := p.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			if name == "" || child.Data == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

// Closest returns the nearest ancestor-or-self element named name.
func Closest(n *Node, name string) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == xmlquery.ElementNode && p.Data == name {
			return p
		}
	}
	return nil
}

// Offset returns the position of n among its parent's child nodes, or -1
// for a detached node.
func Offset(n *Node) int {
	if n.Parent == nil {
		return -1
	}
	ix := 0
	for child := n.Parent.FirstChild; child != nil; child = child.NextSibling {
		if child == n {
			return ix
		}
		ix++
	}
	return -1
}

// Append detaches child from wherever it is and appends it to parent.
func Append(parent, child *Node) {
	Remove(child)
	xmlquery.AddChild(parent, child)
}

// Remove detaches n from its parent.
func Remove(n *Node) {
	if n.Parent != nil {
		xmlquery.RemoveFromTree(n)
	}
}

// ReplaceChildren swaps the whole child list of parent for children in a
// single step. Nodes of the new list are detached from their previous
// position first.
func ReplaceChildren(parent *Node, children []*Node) {
	for child := parent.FirstChild; child != nil; {
		next := child.NextSibling
		child.Parent, child.PrevSibling, child.NextSibling = nil, nil, nil
		child = next
	}
	parent.FirstChild, parent.LastChild = nil, nil
	for _, child := range children {
		Append(parent, child)
	}
}

// Text returns the concatenated text content of n.
func Text(n *Node) string {
	return n.InnerText()
}

// SetText replaces the children of n with a single text node. An empty
// string leaves n without children.
func SetText(n *Node, text string) {
	if text == "" {
		ReplaceChildren(n, nil)
		return
	}
	ReplaceChildren(n, []*Node{NewText(text)})
}

// Clone returns a detached deep copy of n.
func Clone(n *Node) *Node {
	c := &Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
		LineNumber:   n.LineNumber,
	}
	if n.Attr != nil {
		c.Attr = append([]xmlquery.Attr(nil), n.Attr...)
	}
	if n.ProcInst != nil {
		pi := *n.ProcInst
		c.ProcInst = &pi
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(c, Clone(child))
	}
	return c
}

// Normalize merges adjacent text nodes and drops empty ones, recursively.
func Normalize(n *Node) {
	var out []*Node
	var pending *strings.Builder
	flush := func() {
		if pending != nil && pending.Len() > 0 {
			out = append(out, NewText(pending.String()))
		}
		pending = nil
	}
	changed := false
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode {
			if pending == nil {
				pending = &strings.Builder{}
			} else {
				changed = true
			}
			if child.Data == "" {
				changed = true
			}
			pending.WriteString(child.Data)
			continue
		}
		flush()
		if child.Type == xmlquery.ElementNode {
			Normalize(child)
		}
		out = append(out, child)
	}
	flush()
	if changed {
		ReplaceChildren(n, out)
	}
}

// OuterXML serializes n including its own tags.
func OuterXML(n *Node) string {
	return n.OutputXMLWithOptions(xmlquery.WithOutputSelf(), xmlquery.WithEmptyTagSupport())
}

// InnerXML serializes the children of n.
func InnerXML(n *Node) string {
	return n.OutputXMLWithOptions(xmlquery.WithEmptyTagSupport())
}

// OpeningTag serializes the start tag of element n, attributes included.
func OpeningTag(n *Node) string {
	shallow := &Node{
		Type:         n.Type,
		Data:         n.Data,
		Prefix:       n.Prefix,
		NamespaceURI: n.NamespaceURI,
		Attr:         n.Attr,
	}
	// An empty text child keeps the serializer from self-closing.
	xmlquery.AddChild(shallow, NewText(""))
	out := shallow.OutputXML(true)
	return strings.TrimSuffix(out, "</"+qualifiedName(n)+">")
}

func qualifiedName(n *Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// Serialize writes the root element of doc followed by a newline.
func Serialize(doc *Node) []byte {
	root := Root(doc)
	if root == nil {
		return nil
	}
	return []byte(OuterXML(root) + "\n")
}

var exprs sync.Map // string -> *xpath.Expr

// compile returns the compiled form of expr, compiling it once.
func compile(expr string) (*xpath.Expr, error) {
	if e, ok := exprs.Load(expr); ok {
		return e.(*xpath.Expr), nil
	}
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	exprs.Store(expr, e)
	return e, nil
}

// Find evaluates an XPath expression from top.
func Find(top *Node, expr string) ([]*Node, error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelectorAll(top, e), nil
}

// FindOne evaluates an XPath expression and returns the first match.
func FindOne(top *Node, expr string) (*Node, error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelector(top, e), nil
}
