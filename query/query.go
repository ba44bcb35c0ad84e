// Package query is an interactive lemma search over the stored annotated
// documents.
package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/search"
)

const (
	completionThreshold = 2
)

type Handler struct {
	Search   *search.Search
	Lemmas   map[string]int
	Renderer *render.Renderer
	Out      io.Writer
}

func NewHandler(s *search.Search, lemmas map[string]int, r *render.Renderer) *Handler {
	return &Handler{
		Search:   s,
		Lemmas:   lemmas,
		Renderer: r,
		Out:      os.Stdout,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("mmwp query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if in == "quit" {
			return nil
		}

		history = append(history, in)
		if err := h.Query(ctx, in); err != nil {
			fmt.Fprintf(h.Out, "❌ %s\n", err)
		}
	}
}

// Query renders the hits of every lemma of the input line, lemma after
// lemma.
func (h *Handler) Query(ctx context.Context, in string) error {
	lemmas := strings.Fields(in)
	if len(lemmas) == 0 {
		return errors.New("No lemma given")
	}

	for _, lemma := range lemmas {
		var hits []search.Hit
		err := h.Search.Lemma(ctx, lemma, func(hit search.Hit) error {
			hits = append(hits, hit)
			return nil
		})
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Fprintf(h.Out, "no occurrence of %s\n", lemma)
			continue
		}
		if err := h.Renderer.Render(hits); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return h.suggest(in.GetWordBeforeCursor())
	}
}

// suggest offers the known lemmas starting with token, the most frequent
// first.
func (h *Handler) suggest(token string) []prompt.Suggest {
	s := []prompt.Suggest{}

	if len([]rune(token)) < completionThreshold {
		return s
	}

	var lemmas []string
	for lemma := range h.Lemmas {
		if strings.HasPrefix(lemma, token) {
			lemmas = append(lemmas, lemma)
		}
	}
	sort.Slice(lemmas, func(i, j int) bool {
		ci, cj := h.Lemmas[lemmas[i]], h.Lemmas[lemmas[j]]
		if ci != cj {
			return ci > cj
		}
		return lemmas[i] < lemmas[j]
	})

	for _, lemma := range lemmas {
		s = append(s, prompt.Suggest{Text: lemma, Description: strconv.Itoa(h.Lemmas[lemma])})
	}
	return s
}
