package concordance

import (
	"context"
	"fmt"
	"strings"

	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/validate"
	"github.com/mangalam-research/mmwp/xmldoc"
)

var quoteReplacer = strings.NewReplacer(",", "", `"`, "'", "“", "'", "”", "'")

// Cleaner prepares a raw concordance export for conversion: duplicated
// lines go, punctuation that confuses the conversion is replaced and
// truncated references are repaired.
type Cleaner struct {
	registry  *validate.Registry
	names     Names
	overwrite bool
}

// NewCleaner returns a Cleaner. With overwrite set the output takes the
// name of the input.
func NewCleaner(registry *validate.Registry, names Names, overwrite bool) *Cleaner {
	return &Cleaner{registry: registry, names: names, overwrite: overwrite}
}

// OutputName is the name under which the cleaned version of name is
// stored.
func (c *Cleaner) OutputName(name string) string {
	if c.overwrite {
		return name
	}
	return file.CleanedName(name)
}

// Perform cleans data, read from a file called name.
func (c *Cleaner) Perform(ctx context.Context, name string, data []byte) (*Output, error) {
	doc, err := xmldoc.ParseBytes(data)
	if err != nil {
		return nil, report.NewProcessingError(report.TitleParsing, report.ParsingMessage)
	}
	if err := validate.Require(c.registry.Concordance, doc, nil); err != nil {
		return nil, err
	}
	if err := Clean(doc); err != nil {
		return nil, err
	}

	out := c.OutputName(name)
	if !c.overwrite {
		taken, err := c.names.Exists(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", out, err)
		}
		if taken {
			return nil, report.NewProcessingError(report.TitleFileName, "This would overwrite: "+out)
		}
	}
	if err := validate.Require(c.registry.Concordance, doc, nil); err != nil {
		return nil, err
	}
	return &Output{Name: out, Data: xmldoc.Serialize(doc)}, nil
}

// Clean rewrites doc in place. Lines are deduplicated on @refs, the first
// one seen wins, and become the only content of the concordance element.
func Clean(doc *xmldoc.Node) error {
	var lines []*xmldoc.Node
	seen := map[string]bool{}
	for _, line := range xmldoc.Descendants(doc, "line") {
		refs, ok := xmldoc.Attr(line, "refs")
		if !ok {
			return report.Internalf("cannot get @refs, which is mandatory")
		}
		if seen[refs] {
			continue
		}
		seen[refs] = true
		lines = append(lines, line)
	}

	for _, line := range lines {
		if err := cleanLine(line); err != nil {
			return err
		}
	}

	container := firstDescendant(doc, "concordance")
	if container == nil && xmldoc.IsElement(xmldoc.Root(doc), "concordance") {
		container = xmldoc.Root(doc)
	}
	if container == nil {
		return report.Internalf("no concordance element")
	}
	xmldoc.ReplaceChildren(container, lines)
	return nil
}

func cleanLine(line *xmldoc.Node) error {
	xmldoc.Normalize(line)
	cleanLineText(line)

	refs := xmldoc.Get(line, "refs")
	if strings.HasPrefix(refs, ",") {
		num, ok := xmldoc.Attr(line, "num")
		if !ok {
			return report.Internalf("@num is mandatory but somehow missing")
		}
		xmldoc.SetAttr(line, "refs", "000"+num+refs)
	}
	return nil
}

func cleanLineText(n *xmldoc.Node) {
	for _, child := range xmldoc.Children(n) {
		switch {
		case xmldoc.IsText(child):
			child.Data = quoteReplacer.Replace(child.Data)
		case xmldoc.IsElement(child, ""):
			cleanLineText(child)
		}
	}
}
