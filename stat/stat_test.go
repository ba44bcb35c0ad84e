package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/xmldoc"
)

func TestAggregate(t *testing.T) {
	doc, err := xmldoc.ParseString(`<doc><cit id="1"><s id="1"><word id="1" dep.rel="dep" dep.head="2">a-</word><word id="2">-b</word> <word id="3" conc.head="1">c</word></s></cit>` +
		`<cit id="2"><s id="1"><word id="1">d</word></s><s id="2"/></cit></doc>`)
	require.NoError(t, err)

	h := NewHandler()
	h.Aggregate(doc)
	got := h.Get()
	assert.Equal(t, 1, got.NumDocs)
	assert.Equal(t, 2, got.NumCitations)
	assert.Equal(t, 3, got.NumSentences)
	assert.Equal(t, 4, got.NumWords)
	assert.Equal(t, 2, got.NumCompounded)
	assert.Equal(t, 1, got.NumDep)
	assert.Equal(t, 1, got.NumConc)
	assert.Equal(t, 1, got.WordsPerSentenceMean)
	assert.Equal(t, map[int]int{3: 1, 1: 1, 0: 1}, got.WordsPerSentenceDis)

	h.Aggregate(doc)
	assert.Equal(t, 2, h.Get().NumDocs)
	assert.Equal(t, 8, h.Get().NumWords)
}

func TestEmpty(t *testing.T) {
	assert.Equal(t, 0, NewHandler().Get().WordsPerSentenceMean)
}
