package render

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/search"
	"github.com/mangalam-research/mmwp/stat"
	"github.com/mangalam-research/mmwp/storage"
)

func hit() search.Hit {
	return search.Hit{
		Artifact:   "a.xml",
		CitID:      "1",
		SentenceID: "1",
		WordID:     "2",
		Lemma:      "bud",
		Sentence: []search.Token{
			{WordID: "1", Text: "sajn", Lemma: "sajn"},
			{Text: " "},
			{WordID: "2", Text: "bud", Lemma: "bud"},
		},
	}
}

func TestRendererFormats(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{W: &buf, Format: "all"}
	require.NoError(t, r.Render([]search.Hit{hit()}))
	assert.Equal(t, "sajn bud\n", buf.String())

	r.Format = "lemma"
	assert.Equal(t, "sajn bud", r.HitString(hit()))

	r.HasColor = true
	assert.Equal(t, "sajn "+Green256+"bud"+Off, r.HitString(hit()))
}

func TestRendererPart(t *testing.T) {
	h := search.Hit{WordID: "10"}
	for i := 1; i <= 20; i++ {
		if i > 1 {
			h.Sentence = append(h.Sentence, search.Token{Text: " "})
		}
		h.Sentence = append(h.Sentence, search.Token{WordID: strconv.Itoa(i), Text: "w" + strconv.Itoa(i)})
	}
	r := &Renderer{Format: "part"}
	assert.Equal(t, "w4 w5 w6 w7 w8 w9 w10 w11 w12 w13 w14 w15 w16", r.HitString(h))

	h.WordID = "2"
	assert.Equal(t, "w1 w2 w3 w4 w5 w6 w7 w8", r.HitString(h))
}

func TestRendererPrefix(t *testing.T) {
	r := &Renderer{Format: "all"}
	r.NextPrefix()
	assert.True(t, strings.HasPrefix(r.HitString(hit()), "[a.xml                   1:2  ] ✍  "))
}

func TestNextFormat(t *testing.T) {
	r := NewRenderer()
	var seen []string
	for range SupportedFormats() {
		r.NextFormat()
		seen = append(seen, r.Format)
	}
	assert.Equal(t, []string{"part", "lemma", "all"}, seen)
}

func TestArtifactTable(t *testing.T) {
	var buf bytes.Buffer
	ArtifactTable(&buf, nil)
	assert.Equal(t, "(0 artifacts)\n", buf.String())

	buf.Reset()
	a := storage.NewArtifact("a.xml", storage.KindAnnotated, []byte("<doc/>"))
	a.ID = uuid.Nil
	ArtifactTable(&buf, []storage.Artifact{a})
	out := buf.String()
	assert.Contains(t, out, "a.xml")
	assert.Contains(t, out, "annotated")
	assert.Contains(t, out, a.Digest[:12])
	assert.Contains(t, out, uuid.Nil.String())
	assert.True(t, strings.HasSuffix(out, "(1 artifacts)\n"))
}

func TestStatTable(t *testing.T) {
	var buf bytes.Buffer
	StatTable(&buf, stat.Stats{NumDocs: 2, NumWords: 17})
	out := buf.String()
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "17")
}
