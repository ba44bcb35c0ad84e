// Package stat counts what annotated documents hold.
package stat

import (
	"strings"

	"github.com/mangalam-research/mmwp/compound"
	"github.com/mangalam-research/mmwp/xmldoc"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs              int
	NumCitations         int
	NumSentences         int
	NumWords             int
	NumCompounded        int
	NumDep               int
	NumConc              int
	WordsPerSentenceMean int
	WordsPerSentenceDis  map[int]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{WordsPerSentenceDis: map[int]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the counts of doc to the running totals.
func (h *Handler) Aggregate(doc *xmldoc.Node) {
	h.stats.NumDocs++
	h.stats.NumCitations += len(xmldoc.Descendants(doc, "cit"))

	for _, s := range xmldoc.Descendants(doc, "s") {
		h.stats.NumSentences++
		words := xmldoc.Descendants(s, "word")
		h.stats.NumWords += len(words)
		h.stats.WordsPerSentenceDis[len(words)]++

		for _, w := range words {
			if strings.Contains(xmldoc.Text(w), compound.Dash) {
				h.stats.NumCompounded++
			}
			if xmldoc.Has(w, "dep.rel") || xmldoc.Has(w, "dep.head") {
				h.stats.NumDep++
			}
			if xmldoc.Has(w, "conc.rel") || xmldoc.Has(w, "conc.head") {
				h.stats.NumConc++
			}
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.WordsPerSentenceMean = h.stats.NumWords / h.stats.NumSentences
	}
}
