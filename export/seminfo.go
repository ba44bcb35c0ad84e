package export

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// SemInfoName is the name of the semantic summary of the document called
// name.
func SemInfoName(name string) string {
	return file.ReplaceExt(name, "_sem_info.xml")
}

// Tuple is a distinct combination of lemma, semantic field and semantic
// category with the number of words bearing it.
type Tuple struct {
	Lem       string
	SemField  string
	SemCat    string
	Frequency int
}

func (t *Tuple) Key() string {
	return strings.Join([]string{t.Lem, t.SemField, t.SemCat}, ",")
}

func compareTuples(a, b *Tuple) int {
	if c := cmp.Compare(a.Lem, b.Lem); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
		return c
	}
	return cmp.Compare(a.Key(), b.Key())
}

// Tuples collects the tuples of the words of doc that have a semantic
// field or category, sorted by lemma, then by decreasing frequency, then
// by key.
func Tuples(doc *xmldoc.Node) []*Tuple {
	var tuples []*Tuple
	byKey := map[string]*Tuple{}
	for _, w := range xmldoc.Descendants(doc, "word") {
		semCat, hasCat := xmldoc.Attr(w, "sem.cat")
		semField, hasField := xmldoc.Attr(w, "sem.field")
		if !hasCat && !hasField {
			continue
		}
		t := &Tuple{Lem: xmldoc.Get(w, "lem"), SemField: semField, SemCat: semCat}
		if seen, ok := byKey[t.Key()]; ok {
			seen.Frequency++
			continue
		}
		t.Frequency = 1
		byKey[t.Key()] = t
		tuples = append(tuples, t)
	}
	slices.SortStableFunc(tuples, compareTuples)
	return tuples
}

// SemInfo builds the semantic summary document of doc.
func SemInfo(doc *xmldoc.Node) *xmldoc.Node {
	root := xmldoc.NewRootElement(xmldoc.SemInfoNamespace, "sem.info")
	children := []*xmldoc.Node{xmldoc.NewText("\n")}
	for _, t := range Tuples(doc) {
		el := xmldoc.NewElement(xmldoc.SemInfoNamespace, "tuple")
		if t.Lem != "" {
			xmldoc.SetAttr(el, "lem", t.Lem)
		}
		if t.SemField != "" {
			xmldoc.SetAttr(el, "sem.field", t.SemField)
		}
		if t.SemCat != "" {
			xmldoc.SetAttr(el, "sem.cat", t.SemCat)
		}
		xmldoc.SetAttr(el, "freq", strconv.Itoa(t.Frequency))
		children = append(children, el, xmldoc.NewText("\n"))
	}
	xmldoc.ReplaceChildren(root, children)
	return xmldoc.NewDocument(root)
}
