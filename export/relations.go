// Package export extracts tabular and summary views from annotated
// documents.
package export

import (
	"github.com/mangalam-research/mmwp/depcheck"
)

// RelationAttributes are the word attributes reported for the words
// standing in a relation with an occurrence.
var RelationAttributes = []string{
	"case", "number", "sem.cat", "sem.field", "sem.pros", "sem.role", "uncertainty",
}

// Relation is a named relation of a tree. Paired relations point at
// each other through reverse; the others are their own inverse.
type Relation struct {
	Name    string
	reverse *Relation
}

// Inverse returns the relation read in the other direction.
func (r *Relation) Inverse() *Relation {
	if r.reverse != nil {
		return r.reverse
	}
	return r
}

// Tree is the relation catalogue of one tree kind.
type Tree struct {
	Kind      string
	RelAttr   string
	HeadAttr  string
	Relations []*Relation
	// Columns lists, per relation, the relation column followed by one
	// column per relation attribute.
	Columns []string

	known map[string]bool
}

// Known reports whether name is in the catalogue.
func (t *Tree) Known(name string) bool { return t.known[name] }

func newTree(kind string, pairs [][]string) *Tree {
	t := &Tree{
		Kind:     kind,
		RelAttr:  depcheck.RelAttr(kind),
		HeadAttr: depcheck.HeadAttr(kind),
		known:    map[string]bool{},
	}
	for _, pair := range pairs {
		first := &Relation{Name: pair[0]}
		t.Relations = append(t.Relations, first)
		t.known[first.Name] = true
		if len(pair) == 2 {
			second := &Relation{Name: pair[1], reverse: first}
			first.reverse = second
			t.Relations = append(t.Relations, second)
			t.known[second.Name] = true
		}
	}
	for _, r := range t.Relations {
		t.Columns = append(t.Columns, r.Name)
		for _, attr := range RelationAttributes {
			t.Columns = append(t.Columns, r.Name+"."+attr)
		}
	}
	return t
}

// Trees holds the catalogue of every tree kind.
var Trees = map[string]*Tree{
	depcheck.Dep: newTree(depcheck.Dep, [][]string{
		{"modifies", "modified.by"},
		{"glossing", "glossed.by"},
		{"takes.oblique", "oblique.of"},
		{"takes.as.subject.agent", "subject.agent"},
		{"takes.as.object.patient", "object.patient"},
		{"manner.of", "takes.manner"},
		{"clausal.of", "takes.clausal"},
		{"listed.with"},
		{"contrasted.with"},
		{"dep"},
		{"parallel.to"},
	}),
	depcheck.Conc: newTree(depcheck.Conc, [][]string{
		{"leading.to", "caused.by"},
		{"possessing", "belonging.to"},
		{"locus.of", "located.in"},
		{"by.means.of", "achieved.through"},
		{"goal.of", "takes.goal"},
		{"equal"},
		{"while"},
	}),
}
