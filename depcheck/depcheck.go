// Package depcheck verifies that the head pointers of the words of a
// sentence form a single tree.
//
// Two kinds of trees are annotated on words: "dep" and "conc". For a kind
// k a word points to its head with k.head and names the relation with
// k.rel.
package depcheck

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// Tree kinds.
const (
	Dep  = "dep"
	Conc = "conc"
)

// Kinds lists the tree kinds in the order documents are checked.
var Kinds = []string{Conc, Dep}

// DuplicateError is returned by AddNode for an id registered twice.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return "duplicate id " + e.ID
}

type node struct {
	el         *xmldoc.Node
	id         string
	head       string
	annotated  bool
	dependents []*node
}

func (n *node) errorf(format string, args ...any) report.NodeError {
	return report.At(n.el, fmt.Sprintf(format, args...))
}

// Checker checks one tree kind over the words of one container.
type Checker struct {
	kind      string
	container *xmldoc.Node
	byID      map[string]*node
	order     []*node
}

// New returns a Checker for kind over the children of container.
func New(kind string, container *xmldoc.Node) *Checker {
	return &Checker{
		kind:      kind,
		container: container,
		byID:      map[string]*node{},
	}
}

// RelAttr returns the relation attribute name of kind.
func RelAttr(kind string) string { return kind + ".rel" }

// HeadAttr returns the head attribute name of kind.
func HeadAttr(kind string) string { return kind + ".head" }

// AddNode registers el. It returns a *DuplicateError when the id of el
// was already registered.
func (c *Checker) AddNode(el *xmldoc.Node) error {
	id, ok := xmldoc.Attr(el, "id")
	if !ok {
		return report.Internalf("id missing")
	}
	if _, dup := c.byID[id]; dup {
		return &DuplicateError{ID: id}
	}

	n := &node{
		el:        el,
		id:        id,
		head:      xmldoc.Get(el, HeadAttr(c.kind)),
		annotated: xmldoc.Has(el, RelAttr(c.kind)),
	}
	c.byID[id] = n
	c.order = append(c.order, n)
	return nil
}

// Check returns the errors of the registered tree, empty when it is a
// well formed tree or when no word takes part in it.
func (c *Checker) Check() []report.NodeError {
	var errs []report.NodeError

	// participating nodes, see byKey for their order
	var participating []*node
	in := map[string]bool{}
	join := func(id string) {
		if !in[id] {
			in[id] = true
			if n, ok := c.byID[id]; ok {
				participating = append(participating, n)
			}
		}
	}

	exists := false
	for _, n := range c.order {
		if n.head == "" {
			continue
		}
		exists = true
		join(n.id)
		if _, ok := c.byID[n.head]; !ok {
			errs = append(errs, n.errorf("word %s depends on non-existent word %s", n.id, n.head))
		}
		join(n.head)
	}

	for _, n := range c.order {
		if n.annotated && !in[n.id] {
			errs = append(errs, n.errorf("word %s has %s but is not part of the %s tree",
				n.id, RelAttr(c.kind), c.kind))
		}
	}

	if !exists || len(errs) != 0 {
		return errs
	}

	slices.SortStableFunc(participating, byKey)

	var roots []*node
	for _, n := range participating {
		n.dependents = nil
	}
	for _, n := range participating {
		if n.head == "" {
			roots = append(roots, n)
			continue
		}
		head := c.byID[n.head]
		head.dependents = append(head.dependents, n)
	}

	switch {
	case len(roots) > 1:
		for _, r := range roots {
			errs = append(errs, r.errorf("word %s is a duplicated root in the %s tree", r.id, c.kind))
		}
		return errs
	case len(roots) == 0:
		return append(errs, report.At(c.container, fmt.Sprintf("the %s tree has no root", c.kind)))
	}

	seen := map[string]bool{}
	errs = c.walk(roots[0], seen, nil, errs)
	for _, n := range participating {
		if !seen[n.id] {
			errs = append(errs, n.errorf(
				"word %s has a dependency in the %s tree but is unreachable from the root", n.id, c.kind))
		}
	}
	return errs
}

// byKey orders ids the way object keys enumerate: ids that are array
// indices first, numerically, then the others in the order they were seen.
func byKey(a, b *node) int {
	ia, aok := index(a.id)
	ib, bok := index(b.id)
	switch {
	case aok && bok:
		return cmp.Compare(ia, ib)
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

func index(id string) (uint64, bool) {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func (c *Checker) walk(cur *node, seen map[string]bool, path []string, errs []report.NodeError) []report.NodeError {
	for _, p := range path {
		if p == cur.id {
			return append(errs, cur.errorf("%s tree has a circular dependency %s", c.kind, strings.Join(path, ", ")))
		}
	}
	if seen[cur.id] {
		return append(errs, cur.errorf("seen %s already: tree %s is not a tree", cur.id, c.kind))
	}
	seen[cur.id] = true

	path = append(path[:len(path):len(path)], cur.id)
	for _, d := range cur.dependents {
		errs = c.walk(d, seen, path, errs)
	}
	return errs
}
