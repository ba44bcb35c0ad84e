package render

import (
	"encoding/json"
	"io"

	"github.com/mangalam-research/mmwp/search"
)

// JSONRenderer writes search hits as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the hits as a JSON array. No hits give [].
func (r *JSONRenderer) Render(hits []search.Hit) error {
	if hits == nil {
		hits = []search.Hit{}
	}
	return json.NewEncoder(r.W).Encode(hits)
}

// compile-time interface check
var _ HitRenderer = (*JSONRenderer)(nil)
