// Package search finds the occurrences of a lemma in stored annotated
// documents.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// wordsExpr selects the words carrying a lemma whatever their namespace.
const wordsExpr = "//*[local-name()='word' and @lem]"

// Token is a piece of a sentence: a word, or the text between words when
// WordID is empty.
type Token struct {
	WordID string `json:"word_id,omitempty"`
	Text   string `json:"text"`
	Lemma  string `json:"lemma,omitempty"`
}

// Hit is one occurrence of the lemma searched for.
type Hit struct {
	Artifact   string  `json:"artifact"`
	CitID      string  `json:"cit_id"`
	Ref        string  `json:"ref,omitempty"`
	SentenceID string  `json:"sentence_id"`
	WordID     string  `json:"word_id"`
	Lemma      string  `json:"lemma"`
	Sentence   []Token `json:"sentence"`
}

// Search looks for lemmas in the annotated artifacts of a repository.
type Search struct {
	repo storage.ArtifactReader
	name *string
}

// New creates a Search over every annotated artifact of repo.
func New(repo storage.ArtifactReader) *Search {
	return &Search{repo: repo}
}

// WithName restricts the search to the artifact called name.
func (s *Search) WithName(name string) *Search {
	s.name = &name
	return s
}

// names returns the artifacts to search.
func (s *Search) names(ctx context.Context) ([]string, error) {
	if s.name != nil {
		return []string{*s.name}, nil
	}
	artifacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	var names []string
	for _, a := range artifacts {
		if a.Kind == storage.KindAnnotated {
			names = append(names, a.Name)
		}
	}
	return names, nil
}

// each parses the artifacts to search in turn.
func (s *Search) each(ctx context.Context, fn func(name string, doc *xmldoc.Node) error) error {
	names, err := s.names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		doc, err := xmldoc.ParseBytes(a.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := fn(name, doc); err != nil {
			return err
		}
	}
	return nil
}

// Lemmas counts the words of each lemma.
func (s *Search) Lemmas(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	err := s.each(ctx, func(_ string, doc *xmldoc.Node) error {
		words, err := xmldoc.Find(doc, wordsExpr)
		if err != nil {
			return err
		}
		for _, w := range words {
			if lem := strings.TrimSpace(xmldoc.Get(w, "lem")); lem != "" {
				counts[lem]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Lemma calls onHit for each word whose trimmed lem is lemma, artifact by
// artifact in name order and in document order within an artifact.
func (s *Search) Lemma(ctx context.Context, lemma string, onHit func(Hit) error) error {
	return s.each(ctx, func(name string, doc *xmldoc.Node) error {
		hits, err := Document(name, doc, lemma)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, h := range hits {
			if err := onHit(h); err != nil {
				return err
			}
		}
		return nil
	})
}

// Document returns the hits of lemma in doc, an annotated document
// stored as name.
func Document(name string, doc *xmldoc.Node, lemma string) ([]Hit, error) {
	words, err := xmldoc.Find(doc, wordsExpr)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, w := range words {
		if strings.TrimSpace(xmldoc.Get(w, "lem")) != lemma {
			continue
		}
		h := Hit{
			Artifact: name,
			WordID:   xmldoc.Get(w, "id"),
			Lemma:    lemma,
		}
		if cit := xmldoc.Closest(w, "cit"); cit != nil {
			h.CitID = xmldoc.Get(cit, "id")
			h.Ref = xmldoc.Get(cit, "ref")
		}
		if s := xmldoc.Closest(w, "s"); s != nil {
			h.SentenceID = xmldoc.Get(s, "id")
			h.Sentence = Tokens(s)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Tokens flattens a sentence into words and the text between them.
func Tokens(s *xmldoc.Node) []Token {
	var tokens []Token
	for _, child := range xmldoc.Children(s) {
		switch {
		case xmldoc.IsElement(child, "word"):
			tokens = append(tokens, Token{
				WordID: xmldoc.Get(child, "id"),
				Text:   xmldoc.Text(child),
				Lemma:  xmldoc.Get(child, "lem"),
			})
		case xmldoc.IsText(child):
			tokens = append(tokens, Token{Text: child.Data})
		}
	}
	return tokens
}
