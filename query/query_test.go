package query

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/search"
	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/storage/filesystem"
)

const annotated = `<doc xmlns="http://mangalamresearch.org/ns/mmwp/doc" version="2" lem="sajn" title="T" genre="g" author="a" tradition="t" school="s" period="p">` +
	`<cit id="1" sid="4"><s id="1"><word id="1" lem="sajn">sajn</word> <word id="2" lem="bud">bud</word></s></cit>` +
	`</doc>`

func handler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	repo, err := filesystem.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	_, err = repo.Write(context.Background(), storage.NewArtifact("a.xml", storage.KindAnnotated, []byte(annotated)))
	require.NoError(t, err)

	var out bytes.Buffer
	r := &render.Renderer{W: &out, Format: render.Defaultformat}
	h := NewHandler(search.New(repo), map[string]int{"sajn": 3, "saj": 1, "sat": 5, "bud": 2}, r)
	h.Out = &out
	return h, &out
}

func TestQuery(t *testing.T) {
	h, out := handler(t)
	require.NoError(t, h.Query(context.Background(), "bud nothing"))
	assert.Equal(t, "sajn bud\nno occurrence of nothing\n", out.String())

	assert.EqualError(t, h.Query(context.Background(), "  "), "No lemma given")
}

func TestSuggest(t *testing.T) {
	h, _ := handler(t)
	var texts []string
	for _, s := range h.suggest("sa") {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"sat", "sajn", "saj"}, texts)
	assert.Empty(t, h.suggest("s"))
	assert.Equal(t, "2", h.suggest("bu")[0].Description)
}
