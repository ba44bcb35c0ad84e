package report

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	l := NewLogger()
	assert.False(t, l.HasErrors())
	assert.False(t, l.HasWarnings())

	l.Warn("w1")
	l.Error("e1", "e2")
	assert.True(t, l.HasErrors())
	assert.True(t, l.HasWarnings())
	assert.Equal(t, []CheckError{"e1", "e2"}, l.Errors())
	assert.Equal(t, []Warning{"w1"}, l.Warnings())

	other := NewLogger()
	other.Error("e3")
	other.Warn("w2")
	l.Merge(other)
	assert.Equal(t, []CheckError{"e1", "e2", "e3"}, l.Errors())
	assert.Equal(t, []Warning{"w1", "w2"}, l.Warnings())
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs([]CheckError{"a", "b"})
	assert.Equal(t, "<p>a</p>\n<p>b</p>", got)
	assert.Equal(t, "", Paragraphs([]Warning{}))
}

func TestInternal(t *testing.T) {
	err := fmt.Errorf("transforming: %w", Internalf("unexpected element %s", "foo"))
	assert.True(t, IsInternal(err))
	assert.EqualError(t, err, "transforming: internal failure: unexpected element foo")
	assert.False(t, IsInternal(errors.New("x")))
}

func TestAsProcessingError(t *testing.T) {
	err := fmt.Errorf("file a.xml: %w", NewProcessingError(TitleFileName, "This would overwrite: a.xml"))
	pe, ok := AsProcessingError(err)
	assert.True(t, ok)
	assert.Equal(t, TitleFileName, pe.Title)
	assert.Equal(t, "File Name Error: This would overwrite: a.xml", pe.Error())

	_, ok = AsProcessingError(errors.New("x"))
	assert.False(t, ok)
}

func TestFork(t *testing.T) {
	l := NewLogger()
	clean := l.Fork()
	assert.False(t, clean.HasErrors())

	l.Error("e1")
	f := l.Fork()
	assert.True(t, f.HasErrors())
	assert.Empty(t, f.Errors())

	f.Error("e2")
	l.Merge(f)
	assert.Equal(t, []CheckError{"e1", "e2"}, l.Errors())
}
