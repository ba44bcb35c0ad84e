package concordance

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/validate"
	"github.com/mangalam-research/mmwp/xmldoc"
)

func parse(t *testing.T, s string) *xmldoc.Node {
	t.Helper()
	doc, err := xmldoc.ParseString(s)
	require.NoError(t, err)
	return doc
}

// element parses s and returns its root element.
func element(t *testing.T, s string) *xmldoc.Node {
	t.Helper()
	return xmldoc.Root(parse(t, s))
}

type names map[string]bool

func (n names) Exists(_ context.Context, name string) (bool, error) {
	return n[name], nil
}

func TestParseRefCurrent(t *testing.T) {
	logger := report.NewLogger()
	ref := ParseRef(Current, "12, 1.2, Abhi, g, a, t, s, p", logger)
	require.NotNil(t, ref)
	assert.False(t, logger.HasErrors())
	assert.Equal(t, "12", ref.SentenceID)
	assert.True(t, ref.HasPageVerse)
	assert.Equal(t, "1.2", ref.PageVerse)
	assert.Equal(t, Title{"Abhi", "g", "a", "t", "s", "p"}, ref.Title)

	ref = ParseRef(Current, "3,Abhi,g,a,t,s,p", logger)
	require.NotNil(t, ref)
	assert.False(t, ref.HasPageVerse)
	assert.Equal(t, "Abhi", ref.Title.Title)
}

func TestParseRefLegacy(t *testing.T) {
	ref := ParseRef(Legacy, "T,g,a,t,s,p", nil)
	require.NotNil(t, ref)
	assert.Equal(t, "", ref.SentenceID)
	assert.Equal(t, "p", ref.Title.Period)

	ref = ParseRef(Legacy, "4.5,T,g,a,t,s,p", nil)
	require.NotNil(t, ref)
	assert.Equal(t, "4.5", ref.PageVerse)
}

func TestParseRefErrors(t *testing.T) {
	logger := report.NewLogger()
	assert.Nil(t, ParseRef(Current, "a,b", logger))
	assert.Nil(t, ParseRef(Legacy, "a,b", logger))

	ref := ParseRef(Current, "0,T,g,a,t,s,p", logger)
	assert.NotNil(t, ref)
	ref = ParseRef(Current, "x1,T,g,a,t,s,p", logger)
	assert.NotNil(t, ref)

	assert.Equal(t, []report.CheckError{
		"invalid ref: ref does not contain 7 or 8 parts: a,b",
		"invalid ref: ref does not contain 6 or 7 parts: a,b",
		"invalid ref: sentenceID is not a positive integer: 0",
		"invalid ref: sentenceID is not a positive integer: x1",
	}, logger.Errors())

	// Without a logger nothing is reported.
	assert.Nil(t, ParseRef(Current, "a,b", nil))
}

func TestTitleCheck(t *testing.T) {
	base := Title{"T", "g", "a", "t", "s", "p"}
	assert.NoError(t, base.Check(base))

	tests := []struct {
		field  string
		change func(*Title)
		want   string
	}{
		{"titles", func(t *Title) { t.Title = "U" }, "titles differ: T vs U"},
		{"genres", func(t *Title) { t.Genre = "G" }, "genres differ: g vs G"},
		{"authors", func(t *Title) { t.Author = "A" }, "authors differ: a vs A"},
		{"traditions", func(t *Title) { t.Tradition = "X" }, "traditions differ: t vs X"},
		{"schools", func(t *Title) { t.School = "S" }, "schools differ: s vs S"},
		{"periods", func(t *Title) { t.Period = "P" }, "periods differ: p vs P"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			other := base
			tt.change(&other)
			err := base.Check(other)
			pe, ok := report.AsProcessingError(err)
			require.True(t, ok)
			assert.Equal(t, report.TitleDiffering, pe.Title)
			assert.Equal(t, "the title T appears more than once, with differing values: "+tt.want, pe.Message)
		})
	}

	// Schools are compared before traditions.
	other := base
	other.School, other.Tradition = "S", "X"
	assert.ErrorContains(t, base.Check(other), "schools differ")
}

func TestGroupTitles(t *testing.T) {
	doc := parse(t, `<export><header><corpus>c</corpus><query>q</query></header><lemma>l</lemma><concordance>
<line refs="1,A,g,a,t,s,p">one</line>
<line refs="2,B,g,a,t,s,p">two</line>
<line refs="bad">three</line>
<line refs="3,A,g,a,t,s,p">four</line>
</concordance></export>`)
	logger := report.NewLogger()
	groups, err := GroupTitles(Current, doc, logger)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Title.Title)
	assert.Len(t, groups[0].Lines, 2)
	assert.Equal(t, "four", xmldoc.Text(groups[0].Lines[1]))
	assert.Equal(t, "B", groups[1].Title.Title)
	assert.Equal(t, []report.CheckError{"invalid ref: ref does not contain 7 or 8 parts: bad"}, logger.Errors())
}

func TestGroupTitlesDiffering(t *testing.T) {
	doc := parse(t, `<export><header><corpus>c</corpus><query>q</query></header><lemma>l</lemma><concordance>
<line refs="1,A,g,a,t,s,p">one</line>
<line refs="2,A,g,a,t,s,q">two</line>
</concordance></export>`)
	_, err := GroupTitles(Current, doc, report.NewLogger())
	assert.EqualError(t, err, "Differing Title: the title A appears more than once, with differing values: periods differ: p vs q")
}

func TestGroupTitlesLegacyWithoutRef(t *testing.T) {
	doc := parse(t, `<concordance><heading><corpus>c</corpus><query>q</query></heading><line>orphan</line></concordance>`)
	logger := report.NewLogger()
	groups, err := GroupTitles(Legacy, doc, logger)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, []report.CheckError{"invalid line: line without a ref: <line>orphan</line>"}, logger.Errors())
}

func TestReadHeader(t *testing.T) {
	doc := parse(t, `<export><header><corpus>corpora/newton_2</corpus><query>q</query></header><lemma>sajn</lemma><concordance/></export>`)
	h, err := ReadHeader(Current, doc)
	require.NoError(t, err)
	assert.Equal(t, Header{Query: "q", Corpus: "corpora/newton_2", Lemma: "sajn"}, h)
	assert.Equal(t, "newton_2", h.CorpusBase())

	doc = parse(t, `<concordance><heading><corpus>flat</corpus><query>q</query></heading></concordance>`)
	h, err = ReadHeader(Legacy, doc)
	require.NoError(t, err)
	assert.Equal(t, "flat", h.CorpusBase())
	assert.Equal(t, "", h.Lemma)
}

func TestExtractRef(t *testing.T) {
	tests := []struct {
		v    Variant
		text string
		want string
		ok   bool
	}{
		{Current, "foo 1. 2 bar", "1.2", true},
		{Current, "foo _ 3 bar", "3", true},
		{Current, "foo _1.2 bar", "1.2", true},
		{Current, "nothing", "", false},
		{Legacy, "foo 12.3bar", "12.3", true},
		{Legacy, "foo _3 bar", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractRef(tt.v, tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestDetectVariant(t *testing.T) {
	v, err := DetectVariant(parse(t, `<export/>`))
	require.NoError(t, err)
	assert.Equal(t, Current, v)
	v, err = DetectVariant(parse(t, `<concordance/>`))
	require.NoError(t, err)
	assert.Equal(t, Legacy, v)
	_, err = DetectVariant(parse(t, `<div/>`))
	assert.True(t, report.IsInternal(err))
}

func TestBuildCitationCurrent(t *testing.T) {
	line := element(t, `<line refs="12,1.2,T,g,a,t,s,p"><page.number>9</page.number><kwic>a <notvariant>b</notvariant></kwic> c<tr p="3">the tr</tr></line>`)
	logger := report.NewLogger()
	c, err := BuildCitation(Current, Title{Title: "T"}, line, 4, logger)
	require.NoError(t, err)
	assert.Equal(t, `<cit id="4" sid="12" ref="1.2">a <notvariant>b</notvariant> c</cit>`, xmldoc.OuterXML(c.Cit))
	require.NotNil(t, c.Translation)
	assert.Equal(t, `<tr p="3">the tr</tr>`, xmldoc.OuterXML(c.Translation))
	assert.Equal(t, xmldoc.DocNamespace, c.Cit.NamespaceURI)
	assert.False(t, logger.HasWarnings())
}

func TestBuildCitationRefFallbacks(t *testing.T) {
	logger := report.NewLogger()

	line := element(t, `<line refs="1,T,g,a,t,s,p"><page.number>9</page.number>x</line>`)
	c, err := BuildCitation(Current, Title{Title: "T"}, line, 1, logger)
	require.NoError(t, err)
	assert.Equal(t, "9", xmldoc.Get(c.Cit, "ref"))

	line = element(t, `<line refs="1,T,g,a,t,s,p">verse 3. 4 here</line>`)
	c, err = BuildCitation(Current, Title{Title: "T"}, line, 1, logger)
	require.NoError(t, err)
	assert.Equal(t, "3.4", xmldoc.Get(c.Cit, "ref"))

	line = element(t, `<line refs="1,T,g,a,t,s,p">no number</line>`)
	c, err = BuildCitation(Current, Title{"T", "g", "a", "t", "s", "p"}, line, 1, logger)
	require.NoError(t, err)
	assert.False(t, xmldoc.Has(c.Cit, "ref"))
	assert.Equal(t, "1", xmldoc.Get(c.Cit, "id"))
	assert.Equal(t, []report.Warning{"no value for cit/@ref in title: T, g, a, t,\ns, p"}, logger.Warnings())
}

func TestBuildCitationLegacy(t *testing.T) {
	line := element(t, `<line><ref>T,g,a,t,s,p</ref>text 1.2 <tr>kept</tr></line>`)
	logger := report.NewLogger()
	c, err := BuildCitation(Legacy, Title{Title: "T"}, line, 2, logger)
	require.NoError(t, err)
	assert.Equal(t, `<cit id="2" ref="1.2">text 1.2 kept</cit>`, xmldoc.OuterXML(c.Cit))
	assert.Nil(t, c.Translation)

	// An unparsable ref yields neither id nor ref.
	line = element(t, `<line><ref>bad</ref>text</line>`)
	c, err = BuildCitation(Legacy, Title{Title: "T"}, line, 3, logger)
	require.NoError(t, err)
	assert.Empty(t, xmldoc.AttrNames(c.Cit))
}

func TestCheckCitation(t *testing.T) {
	logger := report.NewLogger()
	CheckCitation(element(t, `<cit>fine'here</cit>`), logger)
	assert.False(t, logger.HasErrors())
	CheckCitation(element(t, `<cit>bad' here</cit>`), logger)
	require.Len(t, logger.Errors(), 1)
	assert.True(t, strings.HasPrefix(string(logger.Errors()[0]), "errant avagraha in: bad"))
}

func TestConvertMarked(t *testing.T) {
	cit := element(t, `<cit>a <notvariant>b</notvariant> <normalised orig="cc">c</normalised></cit>`)
	require.NoError(t, ConvertMarked(cit))
	assert.Equal(t, `<cit>a <word lem="b">b</word> <word lem="c">cc</word></cit>`, xmldoc.OuterXML(cit))

	cit = element(t, `<cit><foo/></cit>`)
	assert.True(t, report.IsInternal(ConvertMarked(cit)))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a | b c-d", CleanText("a / b ** c  -  d"))
	assert.Equal(t, "a-b", CleanText("a - - b"))
	assert.Equal(t, " x ", CleanText("\t\nx  "))

	for _, s := range []string{"a / b ** c  -  d", "  - -x", "a**-* b", "x  -　y"} {
		once := CleanText(s)
		assert.Equal(t, once, CleanText(once), s)
	}
}

func TestNormalize(t *testing.T) {
	cit := element(t, `<cit>a  /  b<word>c  -  d</word>**</cit>`)
	require.NoError(t, Normalize(cit))
	assert.Equal(t, `<cit>a | b<word>c-d</word></cit>`, xmldoc.OuterXML(cit))

	before := xmldoc.OuterXML(cit)
	require.NoError(t, Normalize(cit))
	assert.Equal(t, before, xmldoc.OuterXML(cit))

	cit = element(t, `<cit>a<!-- note --></cit>`)
	assert.True(t, report.IsInternal(Normalize(cit)))
}

func TestSegment(t *testing.T) {
	cit := element(t, `<cit>foo bar-baz <word lem="q">q</word> last</cit>`)
	Segment(cit)
	assert.Equal(t,
		`<cit><word>foo</word> <word>bar-</word><word>-baz</word> <word lem="q">q</word> <word>last</word></cit>`,
		xmldoc.OuterXML(cit))

	cit = element(t, `<cit><word>a</word> <word>b</word></cit>`)
	Segment(cit)
	assert.Equal(t, `<cit><word>a</word> <word>b</word></cit>`, xmldoc.OuterXML(cit))
}

func TestFixDashes(t *testing.T) {
	line := element(t, `<line>l</line>`)

	cit := element(t, `<cit><word>foo-</word> <word>bar</word><word>baz</word><word>-qux</word></cit>`)
	require.NoError(t, FixDashes(cit, line))
	assert.Equal(t, `<cit><word>foo-</word> <word>-bar</word><word>baz-</word><word>-qux</word></cit>`, xmldoc.OuterXML(cit))

	// Fixing twice changes nothing.
	before := xmldoc.OuterXML(cit)
	require.NoError(t, FixDashes(cit, line))
	assert.Equal(t, before, xmldoc.OuterXML(cit))

	err := FixDashes(element(t, `<cit><word>a</word><word>foo-</word></cit>`), line)
	assert.EqualError(t, err, "Structural Error: word with trailing dash has no following sibling: l")

	err = FixDashes(element(t, `<cit><word>-foo</word><word>a</word></cit>`), line)
	assert.EqualError(t, err, "Structural Error: word with leading dash has no preceding sibling: l")

	err = FixDashes(element(t, `<cit><foo/></cit>`), line)
	assert.True(t, report.IsInternal(err))
}

func TestPopulateLemAndWrap(t *testing.T) {
	cit := element(t, `<cit><word>a-</word><word>-b-</word><word>-c</word> <word lem="x">d-</word><word>-e</word></cit>`)
	require.NoError(t, PopulateLem(cit))
	s := WrapInSentence(cit)
	assert.Equal(t,
		`<cit><s id="1"><word lem="a" id="1">a-</word><word lem="b" id="2">-b-</word><word id="3">-c</word> <word lem="x" id="4">d-</word><word id="5">-e</word></s></cit>`,
		xmldoc.OuterXML(cit))
	assert.Equal(t, cit, s.Parent)
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Abhidharmakośabhāṣya", "Abhidharmakosabhasya"},
		{`[word="sajn"]`, "wordsajn"},
		{"a < b", "a_less_b"},
		{"  x -- y  ", "x_y"},
		{"buddhsktnewton_2", "buddhsktnewton_2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in, "_"), tt.in)
	}
}

const currentExport = `<export>
<header><corpus>corpora/buddhsktnewton_2</corpus><query>[word="sajn"]</query></header>
<lemma>sajn</lemma>
<concordance>
<line refs="12,1.2,Abhi,g,a,t,s,p" num="1">foo bar-baz <notvariant>sajn</notvariant><tr>a tr</tr></line>
<line refs="13,Other,g,a,t,s,p" num="2">one <page.number>7</page.number>two</line>
</concordance>
</export>`

func TestPerform(t *testing.T) {
	p := NewProcessor(validate.NewRegistry(), names{}, 2)
	res, err := p.Perform(context.Background(), []byte(currentExport))
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)
	assert.Empty(t, res.Warnings)

	first := res.Outputs[0]
	assert.Equal(t, "Abhi_wordsajn_buddhsktnewton_2.xml", first.Name)
	assert.Equal(t, `<doc xmlns="http://mangalamresearch.org/ns/mmwp/doc" version="2" lem="sajn" title="Abhi" genre="g" author="a" tradition="t" school="s" period="p">`+
		`<cit id="1" sid="12" ref="1.2"><s id="1"><word id="1">foo</word> <word lem="bar" id="2">bar-</word><word id="3">-baz</word> <word lem="sajn" id="4">sajn</word></s><tr>a tr</tr></cit>`+
		`</doc>`+"\n", string(first.Data))

	second := res.Outputs[1]
	assert.Equal(t, "Other_wordsajn_buddhsktnewton_2.xml", second.Name)
	assert.Contains(t, string(second.Data), `<cit id="1" sid="13" ref="7"><s id="1"><word id="1">one</word> <word id="2">two</word></s></cit>`)
}

func TestPerformLegacy(t *testing.T) {
	in := `<concordance><heading><corpus>legacy</corpus><query>q</query></heading>
<line><ref>T,g,a,t,s,p</ref>text 1.2</line></concordance>`
	p := NewProcessor(validate.NewRegistry(), names{}, 1)
	res, err := p.Perform(context.Background(), []byte(in))
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, "T_q_legacy.xml", res.Outputs[0].Name)
	out := string(res.Outputs[0].Data)
	assert.Contains(t, out, `version="1" title="T"`)
	assert.NotContains(t, out, "lem=")
	assert.Contains(t, out, `<cit id="1" ref="1.2"><s id="1"><word id="1">text</word> <word id="2">1.2</word></s></cit>`)
}

func TestPerformErrors(t *testing.T) {
	reg := validate.NewRegistry()
	ctx := context.Background()

	_, err := NewProcessor(reg, names{}, 0).Perform(ctx, []byte("<export>"))
	pe, ok := report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleParsing, pe.Title)

	_, err = NewProcessor(reg, names{}, 0).Perform(ctx, []byte("<div/>"))
	pe, ok = report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleValidation, pe.Title)

	avagraha := strings.Replace(currentExport, "foo bar-baz", "foo' bar", 1)
	_, err = NewProcessor(reg, names{}, 0).Perform(ctx, []byte(avagraha))
	pe, ok = report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleInvalid, pe.Title)
	assert.True(t, strings.HasPrefix(pe.Message, "<p>errant avagraha in: "))

	taken := names{"Other_wordsajn_buddhsktnewton_2.xml": true}
	_, err = NewProcessor(reg, taken, 0).Perform(ctx, []byte(currentExport))
	assert.EqualError(t, err, "File Name Error: This would overwrite: Other_wordsajn_buddhsktnewton_2.xml")

	dashes := strings.Replace(currentExport, "foo bar-baz", "-foo", 1)
	_, err = NewProcessor(reg, names{}, 0).Perform(ctx, []byte(dashes))
	assert.ErrorContains(t, err, "word with leading dash has no preceding sibling")
}

func TestPerformMissingRefs(t *testing.T) {
	in := strings.Replace(currentExport, `<line refs="13,Other,g,a,t,s,p" num="2">`, `<line num="2">`, 1)
	_, err := NewProcessor(validate.NewRegistry(), names{}, 0).Perform(context.Background(), []byte(in))
	pe, ok := report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleValidation, pe.Title)
	assert.Equal(t, `<p>attribute required: {"ns":"","name":"refs"}</p>`, pe.Message)
	assert.False(t, report.IsInternal(err))
}

func TestPerformGatesLaterTitles(t *testing.T) {
	reg := validate.NewRegistry()
	ctx := context.Background()

	// The first title logs an error, so the dash problem of the second is
	// never reached.
	in := strings.Replace(currentExport, "foo bar-baz", "foo' bar", 1)
	in = strings.Replace(in, "two</line>", "two with-</line>", 1)
	_, err := NewProcessor(reg, names{}, 2).Perform(ctx, []byte(in))
	pe, ok := report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleInvalid, pe.Title)
	assert.True(t, strings.HasPrefix(pe.Message, "<p>errant avagraha in: "))
	assert.NotContains(t, pe.Message, "dash")

	// A failing first title stops the run before the second is checked.
	in = strings.Replace(currentExport, "foo bar-baz", "-foo", 1)
	in = strings.Replace(in, "one ", "one' ", 1)
	_, err = NewProcessor(reg, names{}, 2).Perform(ctx, []byte(in))
	assert.ErrorContains(t, err, "title Abhi: ")
	assert.ErrorContains(t, err, "word with leading dash has no preceding sibling")
}

func TestCleanInvalidInput(t *testing.T) {
	in := `<export><concordance><line num="1">a</line></concordance></export>`
	_, err := NewCleaner(validate.NewRegistry(), names{}, false).Perform(context.Background(), "in.xml", []byte(in))
	pe, ok := report.AsProcessingError(err)
	require.True(t, ok)
	assert.Equal(t, report.TitleValidation, pe.Title)
	assert.Contains(t, pe.Message, `attribute required: {"ns":"","name":"refs"}`)
	assert.Contains(t, pe.Message, `tag required: {"ns":"","name":"header"}`)
}

func TestClean(t *testing.T) {
	in := `<export><header><corpus>c</corpus><query>q</query></header><lemma>l</lemma><concordance>
<line refs="1,T,g,a,t,s,p" num="1">a, “b” <kwic>"c"</kwic></line>
<line refs="1,T,g,a,t,s,p" num="2">dup</line>
<line refs=",T,g,a,t,s,p" num="7">x</line>
</concordance></export>`

	c := NewCleaner(validate.NewRegistry(), names{}, false)
	out, err := c.Perform(context.Background(), "in.xml", []byte(in))
	require.NoError(t, err)
	assert.Equal(t, "in-cleaned.xml", out.Name)

	doc := parse(t, string(out.Data))
	lines := xmldoc.Descendants(doc, "line")
	require.Len(t, lines, 2)
	assert.Equal(t, "a 'b' 'c'", xmldoc.Text(lines[0]))
	assert.Equal(t, "0007,T,g,a,t,s,p", xmldoc.Get(lines[1], "refs"))

	_, err = NewCleaner(validate.NewRegistry(), names{"in-cleaned.xml": true}, false).
		Perform(context.Background(), "in.xml", []byte(in))
	assert.EqualError(t, err, "File Name Error: This would overwrite: in-cleaned.xml")

	out, err = NewCleaner(validate.NewRegistry(), names{"in.xml": true}, true).
		Perform(context.Background(), "in.xml", []byte(in))
	require.NoError(t, err)
	assert.Equal(t, "in.xml", out.Name)
}

func TestCleanMissingNum(t *testing.T) {
	doc := parse(t, `<export><concordance><line refs=",x">a</line></concordance></export>`)
	assert.True(t, report.IsInternal(Clean(doc)))
}
