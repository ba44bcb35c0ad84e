package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mangalam-research/mmwp/stat"
	"github.com/mangalam-research/mmwp/storage"
)

// ArtifactTable writes the metadata of artifacts as a table.
func ArtifactTable(w io.Writer, artifacts []storage.Artifact) {
	if len(artifacts) == 0 {
		_, _ = fmt.Fprintln(w, "(0 artifacts)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Kind", "Created", "Digest", "ID"})
	for _, a := range artifacts {
		digest := a.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		t.AppendRow(table.Row{a.Name, string(a.Kind), a.Created.Format(time.DateTime), digest, a.ID.String()})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d artifacts)\n", len(artifacts))
}

// StatTable writes statistics as a two column table.
func StatTable(w io.Writer, s stat.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"Documents", s.NumDocs},
		{"Citations", s.NumCitations},
		{"Sentences", s.NumSentences},
		{"Words", s.NumWords},
		{"Compounded words", s.NumCompounded},
		{"Dependency relations", s.NumDep},
		{"Conceptual relations", s.NumConc},
		{"Words per sentence (mean)", s.WordsPerSentenceMean},
	})
	t.Render()
}
