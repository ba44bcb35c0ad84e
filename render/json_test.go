package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/search"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	require.NoError(t, r.Render(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONRendererRenderOneResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	require.NoError(t, r.Render([]search.Hit{hit()}))

	var results []search.Hit
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "a.xml", results[0].Artifact)
	assert.Equal(t, "2", results[0].WordID)
	assert.Len(t, results[0].Sentence, 3)
	assert.Contains(t, buf.String(), `"cit_id":"1"`)
}
