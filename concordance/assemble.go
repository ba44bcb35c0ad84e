package concordance

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/validate"
	"github.com/mangalam-research/mmwp/xmldoc"
)

// TransformTitle builds the annotated document of one title. It returns a
// nil document when logger holds errors once the lines are processed.
func TransformTitle(v Variant, h Header, g *Group, logger *report.Logger) (*xmldoc.Node, error) {
	root := xmldoc.NewRootElement(xmldoc.DocNamespace, "doc")
	xmldoc.SetAttr(root, "version", v.Version())
	if v == Current {
		xmldoc.SetAttr(root, "lem", h.Lemma)
	}
	xmldoc.SetAttr(root, "title", g.Title.Title)
	xmldoc.SetAttr(root, "genre", g.Title.Genre)
	xmldoc.SetAttr(root, "author", g.Title.Author)
	xmldoc.SetAttr(root, "tradition", g.Title.Tradition)
	xmldoc.SetAttr(root, "school", g.Title.School)
	xmldoc.SetAttr(root, "period", g.Title.Period)
	doc := xmldoc.NewDocument(root)

	for i, line := range g.Lines {
		c, err := BuildCitation(v, g.Title, line, i+1, logger)
		if err != nil {
			return nil, err
		}
		CheckCitation(c.Cit, logger)
		if logger.HasErrors() {
			continue
		}
		if err := processCitation(v, c.Cit, line); err != nil {
			return nil, err
		}
		if c.Translation != nil {
			xmldoc.Append(c.Cit, c.Translation)
		}
		xmldoc.Append(root, c.Cit)
	}

	if logger.HasErrors() {
		return nil, nil
	}
	return doc, nil
}

func processCitation(v Variant, cit, line *xmldoc.Node) error {
	if err := ConvertMarked(cit); err != nil {
		return err
	}
	if err := Normalize(cit); err != nil {
		return err
	}
	Segment(cit)
	if err := FixDashes(cit, line); err != nil {
		return err
	}
	if v == Current {
		if err := PopulateLem(cit); err != nil {
			return err
		}
	}
	WrapInSentence(cit)
	return nil
}

// OutputName is the name of the document produced for title.
func OutputName(title string, h Header) string {
	return fmt.Sprintf("%s_%s_%s.xml", title, Slug(h.Query, "_"), Slug(h.CorpusBase(), "_"))
}

// Names tells whether an artifact name is taken.
type Names interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// Output is a produced document.
type Output struct {
	Name string
	Data []byte
}

// Result is the outcome of a successful Perform.
type Result struct {
	Outputs  []Output
	Warnings []report.Warning
}

// Processor converts a concordance export into one annotated document
// per title.
type Processor struct {
	registry *validate.Registry
	names    Names
	workers  int
}

// NewProcessor returns a Processor. Titles are converted by up to
// workers goroutines; zero means one per CPU.
func NewProcessor(registry *validate.Registry, names Names, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Processor{registry: registry, names: names, workers: workers}
}

// Perform converts data. Problems the user can fix are returned as
// *report.ProcessingError. Nothing is produced unless every title
// converts.
func (p *Processor) Perform(ctx context.Context, data []byte) (*Result, error) {
	doc, err := xmldoc.ParseBytes(data)
	if err != nil {
		return nil, report.NewProcessingError(report.TitleParsing, report.ParsingMessage)
	}
	if err := validate.Require(p.registry.Concordance, doc, nil); err != nil {
		return nil, err
	}

	v, err := DetectVariant(doc)
	if err != nil {
		return nil, err
	}
	logger := report.NewLogger()
	groups, err := GroupTitles(v, doc, logger)
	if err != nil {
		return nil, err
	}
	header, err := ReadHeader(v, doc)
	if err != nil {
		return nil, err
	}

	docs, err := p.transformTitles(ctx, v, header, groups, logger)
	if err != nil {
		return nil, err
	}
	if logger.HasErrors() {
		return nil, report.NewProcessingError(report.TitleInvalid, report.Paragraphs(logger.Errors()))
	}

	res := &Result{Warnings: logger.Warnings()}
	for i, g := range groups {
		name := OutputName(g.Title.Title, header)
		taken, err := p.names.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", name, err)
		}
		if taken {
			return nil, report.NewProcessingError(report.TitleFileName, "This would overwrite: "+name)
		}
		if err := validate.Require(p.registry.Unannotated, docs[i], nil); err != nil {
			return nil, err
		}
		res.Outputs = append(res.Outputs, Output{Name: name, Data: xmldoc.Serialize(docs[i])})
	}
	return res, nil
}

// transformTitles converts every group concurrently. The loggers of the
// groups are merged into logger in group order, and the first failure in
// group order is returned unless an earlier group logged errors.
func (p *Processor) transformTitles(ctx context.Context, v Variant, h Header, groups []*Group, logger *report.Logger) ([]*xmldoc.Node, error) {
	docs := make([]*xmldoc.Node, len(groups))
	loggers := make([]*report.Logger, len(groups))
	errs := make([]error, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, group := range groups {
		i, group := i, group
		loggers[i] = logger.Fork()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = TransformTitle(v, h, group, loggers[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range groups {
		if errs[i] != nil && logger.HasErrors() {
			// Titles are gated on the errors of the titles before them:
			// once one is logged, later titles are checked but not
			// converted.
			loggers[i] = logger.Fork()
			docs[i], errs[i] = TransformTitle(v, h, groups[i], loggers[i])
		}
		if errs[i] != nil {
			return nil, fmt.Errorf("title %s: %w", groups[i].Title.Title, errs[i])
		}
		logger.Merge(loggers[i])
	}
	return docs, nil
}
