package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mangalam-research/mmwp/search"
)

const (
	partialOffset = 6
	Defaultformat = "all"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

func SupportedFormats() []string {
	return []string{"all", "part", "lemma"}
}

// HitRenderer writes search hits somewhere.
type HitRenderer interface {
	Render(hits []search.Hit) error
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the sentence
	//
	// all: print all sentence
	// part: print the surrounding of the hit in the sentence, cut the rest.
	// lemma: print the lemmas of the words of the sentence
	Format string
}

func NewRenderer() *Renderer {
	return &Renderer{W: os.Stdout, Format: Defaultformat}
}

// Render writes one line per hit.
func (r *Renderer) Render(hits []search.Hit) error {
	for _, h := range hits {
		if _, err := fmt.Fprintln(r.W, r.HitString(h)); err != nil {
			return err
		}
	}
	return nil
}

// HitString returns the line of h in the current format.
func (r *Renderer) HitString(h search.Hit) string {
	var text string
	switch r.Format {
	case "part":
		text = r.sentence(r.syntagma(h), h.WordID)
	case "lemma":
		text = r.lemma(h.Sentence, h.WordID)
	default:
		text = r.sentence(h.Sentence, h.WordID)
	}
	return r.prefix(h) + strings.ReplaceAll(text, "\n", " ")
}

func (r *Renderer) sentence(tokens []search.Token, wordID string) string {
	var str strings.Builder
	for _, token := range tokens {
		str.WriteString(r.colorToken(token, token.Text, wordID))
	}
	return str.String()
}

// syntagma cuts the sentence to partialOffset words on each side of the
// hit.
func (r *Renderer) syntagma(h search.Hit) []search.Token {
	hit := -1
	for i, t := range h.Sentence {
		if t.WordID != "" && t.WordID == h.WordID {
			hit = i
			break
		}
	}
	if hit < 0 {
		return h.Sentence
	}

	first := hit
	for words := 0; first > 0 && words < partialOffset; {
		first--
		if h.Sentence[first].WordID != "" {
			words++
		}
	}
	last := hit
	for words := 0; last < len(h.Sentence)-1 && words < partialOffset; {
		last++
		if h.Sentence[last].WordID != "" {
			words++
		}
	}
	return h.Sentence[first : last+1]
}

// lemma renders the lemmas of the words of the sentence. Words without a
// lemma show as _.
func (r *Renderer) lemma(tokens []search.Token, wordID string) string {
	lemmas := []string{}
	for _, t := range tokens {
		if t.WordID == "" {
			continue
		}
		l := strings.TrimSpace(t.Lemma)
		if l == "" {
			l = "_"
		}
		lemmas = append(lemmas, r.colorToken(t, l, wordID))
	}
	return strings.Join(lemmas, " ")
}

func (r *Renderer) colorToken(token search.Token, text, wordID string) string {
	if !r.HasColor || token.WordID == "" || token.WordID != wordID {
		return text
	}
	return Green256 + text + Off
}

func (r *Renderer) prefix(h search.Hit) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("[%s %4s:%-3s] ✍  ", r.title(h.Artifact), h.CitID, h.WordID)
}

func (r *Renderer) title(name string) string {
	var part string
	if len(name) <= 20 {
		part = fmt.Sprintf("%-20s", name)
	} else {
		part = name[:20]
	}
	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}

var _ HitRenderer = (*Renderer)(nil)
