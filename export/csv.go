package export

import (
	"regexp"
	"strings"
	"time"

	"github.com/mangalam-research/mmwp/depcheck"
	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// CSVFormatVersion is written in the csvFormatVersion column.
const CSVFormatVersion = "1"

var titleColumns = []string{"title", "genre", "author", "tradition", "school", "period"}

// occurrenceAttributes are reported with a "lemma." prefix.
var occurrenceAttributes = []string{"case", "number", "sem.cat", "sem.field", "sem.role", "sem.pros", "uncertainty"}

// ColumnNames is the column schema of the CSV extraction.
var ColumnNames = columnNames()

func columnNames() []string {
	names := []string{"id", "sentenceID", "lemma"}
	names = append(names, titleColumns...)
	names = append(names, "ref", "citation", "translation", "cotext", "cotextSemField")
	for _, attr := range occurrenceAttributes {
		names = append(names, "lemma."+attr)
	}
	names = append(names, "lemma.compounded")
	names = append(names, Trees[depcheck.Dep].Columns...)
	names = append(names, Trees[depcheck.Conc].Columns...)
	return append(names, "csvCreationDateTime", "csvFormatVersion")
}

// CSVName is the name of the CSV extracted from the document called name.
func CSVName(name string) string {
	return file.ReplaceExt(name, ".csv")
}

// CSV extracts one row per occurrence of the document lemma or of one of
// its cognates.
type CSV struct {
	// Now gives the creation time written in every row. Nil means
	// time.Now.
	Now func() time.Time
}

var lemSeparatorRe = regexp.MustCompile(`\s+`)

// Extract returns the CSV text for doc, an annotated document.
func (c *CSV) Extract(doc *xmldoc.Node) (string, error) {
	top := xmldoc.Root(doc)
	lemma, err := necessary(top, "lem")
	if err != nil {
		return "", err
	}
	titles := make([]string, len(titleColumns))
	for i, name := range titleColumns {
		if titles[i], err = necessary(top, name); err != nil {
			return "", err
		}
	}

	selected := map[string]bool{lemma: true}
	if cognates, ok := xmldoc.Attr(top, "lemCognates"); ok {
		for _, l := range lemSeparatorRe.Split(cognates, -1) {
			selected[l] = true
		}
	}

	csv, err := render.NewCSVDocument(ColumnNames)
	if err != nil {
		return "", err
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	created := now().UTC().Format("2006-01-02T15:04:05.000Z07:00")

	for _, word := range xmldoc.Descendants(doc, "word") {
		lem, ok := xmldoc.Attr(word, "lem")
		if !ok || !selected[strings.TrimSpace(lem)] {
			continue
		}
		cit := xmldoc.Closest(word, "cit")
		if cit == nil {
			return "", report.Internalf("unexpected document structure: word not in cit")
		}
		id, err := necessary(cit, "id")
		if err != nil {
			return "", err
		}

		row := csv.MakeRow()
		if err := fillRow(row, titles[0]+strings.TrimSpace(lem)+id, titles, cit, word, created); err != nil {
			return "", err
		}
	}

	r := &render.CSVRenderer{ColumnName: render.AnnotatedColumnName}
	return r.Render(csv)
}

func fillRow(row *render.CSVRow, rowID string, titles []string, cit, occurrence *xmldoc.Node, created string) error {
	row.Set("id", rowID)
	sid, err := necessary(cit, "sid")
	if err != nil {
		return err
	}
	row.Set("sentenceID", sid)
	lem, err := necessary(occurrence, "lem")
	if err != nil {
		return err
	}
	row.Set("lemma", lem)
	for i, name := range titleColumns {
		row.Set(name, titles[i])
	}
	row.Set("ref", attr(cit, "ref"))

	if err := fillCitation(row, cit); err != nil {
		return err
	}
	fillCotext(row, cit, occurrence)

	for _, name := range occurrenceAttributes {
		row.Set("lemma."+name, attr(occurrence, name))
	}
	compounded := "NO"
	if strings.Contains(xmldoc.Text(occurrence), "-") {
		compounded = "YES"
	}
	row.Set("lemma.compounded", compounded)

	for _, kind := range []string{depcheck.Dep, depcheck.Conc} {
		if err := fillRelations(row, Trees[kind], occurrence); err != nil {
			return err
		}
	}

	row.Set("csvCreationDateTime", created)
	row.Set("csvFormatVersion", CSVFormatVersion)
	return nil
}

// fillCitation sets the citation text, without the translation, and the
// translation with its secondary attributes in brackets.
func fillCitation(row *render.CSVRow, cit *xmldoc.Node) error {
	clone := xmldoc.Clone(cit)
	trs := xmldoc.Descendants(clone, "tr")
	if len(trs) > 1 {
		return report.Internalf("unexpected structure: more than one tr in cit")
	}
	if len(trs) == 1 {
		tr := trs[0]
		xmldoc.Remove(tr)
		var extra []string
		for _, name := range []string{"tr", "p"} {
			if v := attr(tr, name); v != "" {
				extra = append(extra, v)
			}
		}
		text := xmldoc.Text(tr)
		if len(extra) != 0 {
			text += " [" + strings.Join(extra, " ") + "]"
		}
		row.Set("translation", text)
	}
	row.Set("citation", xmldoc.Text(clone))
	return nil
}

func fillCotext(row *render.CSVRow, cit, occurrence *xmldoc.Node) {
	var lems, fields []string
	for _, w := range xmldoc.Descendants(cit, "word") {
		if w == occurrence {
			continue
		}
		if lem, ok := xmldoc.Attr(w, "lem"); ok {
			lems = append(lems, strings.TrimSpace(lem))
		}
		if field, ok := xmldoc.Attr(w, "sem.field"); ok {
			fields = append(fields, strings.TrimSpace(field))
		}
	}
	row.Set("cotext", strings.Join(lems, ";;"))
	row.Set("cotextSemField", strings.Join(fields, ";;"))
}

// fillRelations sets the columns of tree for occurrence. A relation R
// lists the words whose head is the occurrence and whose relation is the
// inverse of R, plus the head of the occurrence when the occurrence
// itself bears R.
func fillRelations(row *render.CSVRow, tree *Tree, occurrence *xmldoc.Node) error {
	s := xmldoc.Closest(occurrence, "s")
	if s == nil {
		return report.Internalf("unexpected document structure: word not in s")
	}

	byRel := map[string]map[*xmldoc.Node]bool{}
	var pointing []*xmldoc.Node
	byID := map[string]*xmldoc.Node{}

	occurrenceID, err := necessary(occurrence, "id")
	if err != nil {
		return err
	}

	for _, w := range xmldoc.Descendants(s, "word") {
		if w == occurrence {
			continue
		}
		if rel, ok := xmldoc.Attr(w, tree.RelAttr); ok {
			rel = strings.TrimSpace(rel)
			if !tree.Known(rel) {
				return report.Internalf("unknown relation: %s", rel)
			}
			if byRel[rel] == nil {
				byRel[rel] = map[*xmldoc.Node]bool{}
			}
			byRel[rel][w] = true
		}
		if head, ok := xmldoc.Attr(w, tree.HeadAttr); ok && strings.TrimSpace(head) == occurrenceID {
			pointing = append(pointing, w)
		}
		id, err := necessary(w, "id")
		if err != nil {
			return err
		}
		if byID[id] != nil {
			return report.Internalf("duplicate word id")
		}
		byID[id] = w
	}

	ownRel := attr(occurrence, tree.RelAttr)
	if ownRel != "" && !tree.Known(ownRel) {
		return report.Internalf("unknown relation: %s", ownRel)
	}
	ownHead, hasHead := xmldoc.Attr(occurrence, tree.HeadAttr)
	ownHead = strings.TrimSpace(ownHead)

	for _, r := range tree.Relations {
		var relevant []*xmldoc.Node
		inverse := byRel[r.Inverse().Name]
		for _, w := range pointing {
			if inverse[w] {
				relevant = append(relevant, w)
			}
		}
		if hasHead && ownRel == r.Name {
			head := byID[ownHead]
			if head == nil {
				return report.Internalf("no word with id %s", ownHead)
			}
			if !contains(relevant, head) {
				relevant = append(relevant, head)
			}
		}

		row.Set(r.Name, joinAttr(relevant, "lem"))
		for _, name := range RelationAttributes {
			row.Set(r.Name+"."+name, joinAttr(relevant, name))
		}
	}
	return nil
}

func contains(nodes []*xmldoc.Node, n *xmldoc.Node) bool {
	for _, x := range nodes {
		if x == n {
			return true
		}
	}
	return false
}

func joinAttr(words []*xmldoc.Node, name string) string {
	var values []string
	for _, w := range words {
		if v := attr(w, name); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, ";;")
}

// attr returns the trimmed value of attribute name, or "".
func attr(n *xmldoc.Node, name string) string {
	return strings.TrimSpace(xmldoc.Get(n, name))
}

func necessary(n *xmldoc.Node, name string) (string, error) {
	v, ok := xmldoc.Attr(n, name)
	if !ok {
		return "", report.Internalf("trying to get unset attribute %s from an element with tag name %s", name, n.Data)
	}
	return strings.TrimSpace(v), nil
}
