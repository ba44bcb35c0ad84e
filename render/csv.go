package render

import (
	"fmt"
	"regexp"
	"strings"
)

// CSVDocument is a table with a fixed, ordered set of columns.
type CSVDocument struct {
	columns []string
	known   map[string]bool
	rows    []*CSVRow
}

// NewCSVDocument returns an empty document. Column names must be unique
// and not empty.
func NewCSVDocument(columns []string) (*CSVDocument, error) {
	known := map[string]bool{}
	for _, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("cannot support column name: %s", name)
		}
		if known[name] {
			return nil, fmt.Errorf("duplicate name: %s", name)
		}
		known[name] = true
	}
	return &CSVDocument{columns: columns, known: known}, nil
}

func (d *CSVDocument) Columns() []string { return d.columns }

func (d *CSVDocument) Rows() []*CSVRow { return d.rows }

// MakeRow appends an empty row.
func (d *CSVDocument) MakeRow() *CSVRow {
	row := &CSVRow{doc: d, values: map[string]string{}}
	d.rows = append(d.rows, row)
	return row
}

// CSVRow is a row of a CSVDocument. Columns never set are rendered with
// the placeholder of the renderer.
type CSVRow struct {
	doc    *CSVDocument
	values map[string]string
}

// Set sets column name. It panics when the document has no such column.
func (r *CSVRow) Set(name, value string) {
	if !r.doc.known[name] {
		panic("unknown column name: " + name)
	}
	r.values[name] = value
}

// Get returns the value of column name and whether it was set.
func (r *CSVRow) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

var whitespaceRe = regexp.MustCompile(`[\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)

// CSVRenderer writes a CSVDocument as comma separated text, one line per
// row after a heading line.
type CSVRenderer struct {
	// Placeholder stands for unset columns.
	Placeholder string
	// ColumnName maps column names to headings. Nil keeps the names.
	ColumnName func(string) (string, error)
}

// Render returns the text of d.
func (r *CSVRenderer) Render(d *CSVDocument) (string, error) {
	var b strings.Builder

	heading := make([]string, len(d.columns))
	for i, name := range d.columns {
		if r.ColumnName != nil {
			var err error
			if name, err = r.ColumnName(name); err != nil {
				return "", err
			}
		}
		heading[i] = Column(name)
	}
	b.WriteString(strings.Join(heading, ","))
	b.WriteString("\n")

	// The placeholder goes through Column once more when used.
	placeholder := Column(r.Placeholder)
	fields := make([]string, len(d.columns))
	for _, row := range d.rows {
		for i, name := range d.columns {
			v, ok := row.values[name]
			if !ok {
				v = placeholder
			}
			fields[i] = Column(v)
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Column renders one field: white space runs become one space, double
// quotes are doubled and the field is quoted when it holds a comma or a
// double quote.
func Column(value string) string {
	text := whitespaceRe.ReplaceAllString(value, " ")
	text = strings.ReplaceAll(text, `"`, `""`)
	if strings.ContainsAny(text, `,"`) {
		text = `"` + text + `"`
	}
	return strings.TrimSpace(text)
}

var annotatedColumnRe = regexp.MustCompile(`^[a-zA-Z0-9.]+$`)

// AnnotatedColumnName turns dotted attribute style names into camel case:
// "lemma.sem.cat" becomes "lemmaSemCat".
func AnnotatedColumnName(name string) (string, error) {
	if !annotatedColumnRe.MatchString(name) ||
		strings.Contains(name, "..") ||
		strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return "", fmt.Errorf("cannot support column name: %s", name)
	}

	var b strings.Builder
	upper := false
	for _, c := range name {
		switch {
		case c == '.':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(c)))
			upper = false
		default:
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}
