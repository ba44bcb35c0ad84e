package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangalam-research/mmwp/xmldoc"
)

func word(text string) *xmldoc.Node {
	w := xmldoc.NewElement(xmldoc.DocNamespace, "word")
	xmldoc.SetText(w, text)
	return w
}

func texts(words []*xmldoc.Node) []string {
	var out []string
	for _, w := range words {
		out = append(out, xmldoc.Text(w))
	}
	return out
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"a-b", true},
		{"abc", true},
		{"", false},
		{"-a", false},
		{"a-", false},
		{"a--b", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsValid(word(c.text)), "text %q", c.text)
	}
}

func TestWordsFromParts(t *testing.T) {
	assert.Equal(t, []string{"something-", "-else-", "-s"}, texts(Split("something-else-s")))
	assert.Equal(t, []string{"a"}, texts(WordsFromParts([]string{"a"})))

	// Empty parts are dropped but still count as first or last.
	assert.Equal(t, []string{"-a-", "-b"}, texts(Split("-a-b")))
	assert.Equal(t, []string{"a-", "-b-"}, texts(Split("a-b-")))
	assert.Equal(t, []string{"a-", "-b"}, texts(Split("a--b")))
	assert.Empty(t, Split("-"))

	for _, w := range Split("x-y") {
		assert.Equal(t, "word", w.Data)
		assert.Equal(t, xmldoc.DocNamespace, w.NamespaceURI)
	}
}

func TestSetLemFromPart(t *testing.T) {
	w := word("-foo-")
	SetLemFromPart(w)
	assert.Equal(t, "foo", xmldoc.Get(w, "lem"))

	w = word("foo-")
	SetLemFromPart(w)
	assert.Equal(t, "foo", xmldoc.Get(w, "lem"))

	w = word("-foo")
	SetLemFromPart(w)
	assert.False(t, xmldoc.Has(w, "lem"))

	w = word("foo-")
	xmldoc.SetAttr(w, "lem", "bar")
	SetLemFromPart(w)
	assert.Equal(t, "bar", xmldoc.Get(w, "lem"))
}
