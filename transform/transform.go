// Package transform exposes every conversion of the pipeline behind one
// interface so that callers can pick one by kind.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mangalam-research/mmwp/concordance"
	"github.com/mangalam-research/mmwp/export"
	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/validate"
	"github.com/mangalam-research/mmwp/xmldoc"
)

type Kind int

const (
	ToAnnotated Kind = iota
	ToCSV
	ToCoNLL
	ToSemanticInfo
	CleanupOnly
)

var kindNames = map[Kind]string{
	ToAnnotated:    "annotated",
	ToCSV:          "csv",
	ToCoNLL:        "conll",
	ToSemanticInfo: "seminfo",
	CleanupOnly:    "cleanup",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Produces is the kind of the artifacts k outputs.
func (k Kind) Produces() storage.Kind {
	switch k {
	case ToCSV:
		return storage.KindCSV
	case ToCoNLL:
		return storage.KindCoNLL
	case ToSemanticInfo:
		return storage.KindSemInfo
	case CleanupOnly:
		return storage.KindConcordance
	}
	return storage.KindAnnotated
}

// Result is the outcome of a successful transform: the outputs in order
// and the warnings to show the user.
type Result struct {
	Outputs  []concordance.Output
	Warnings []report.Warning
}

// Transform converts one input document.
type Transform interface {
	Kind() Kind
	Transform(ctx context.Context, in file.Input) (*Result, error)
}

// Deps holds what transforms need from their environment.
type Deps struct {
	Registry *validate.Registry

	// Names is used for the overwrite checks of ToAnnotated and
	// CleanupOnly.
	Names concordance.Names

	// Workers bounds the titles converted at once by ToAnnotated.
	Workers int

	// Overwrite makes CleanupOnly replace its input.
	Overwrite bool

	// Now stamps CSV rows. Defaults to time.Now.
	Now func() time.Time
}

// New returns the transform of kind k.
func New(k Kind, deps Deps) (Transform, error) {
	if deps.Registry == nil {
		deps.Registry = validate.NewRegistry()
	}

	switch k {
	case ToAnnotated, CleanupOnly:
		if deps.Names == nil {
			return nil, fmt.Errorf("transform %s needs an artifact name lookup", k)
		}
	}

	switch k {
	case ToAnnotated:
		return &annotate{p: concordance.NewProcessor(deps.Registry, deps.Names, deps.Workers)}, nil
	case CleanupOnly:
		return &cleanup{c: concordance.NewCleaner(deps.Registry, deps.Names, deps.Overwrite)}, nil
	case ToCSV, ToCoNLL, ToSemanticInfo:
		return &extract{kind: k, registry: deps.Registry, now: deps.Now}, nil
	}
	return nil, fmt.Errorf("unknown transform kind: %d", int(k))
}

type annotate struct {
	p *concordance.Processor
}

func (a *annotate) Kind() Kind { return ToAnnotated }

func (a *annotate) Transform(ctx context.Context, in file.Input) (*Result, error) {
	slog.Debug("transform", "kind", ToAnnotated, "input", in.Name)
	res, err := a.p.Perform(ctx, in.Data)
	if err != nil {
		return nil, err
	}
	return &Result{Outputs: res.Outputs, Warnings: res.Warnings}, nil
}

type cleanup struct {
	c *concordance.Cleaner
}

func (c *cleanup) Kind() Kind { return CleanupOnly }

func (c *cleanup) Transform(ctx context.Context, in file.Input) (*Result, error) {
	slog.Debug("transform", "kind", CleanupOnly, "input", in.Name)
	out, err := c.c.Perform(ctx, in.Name, in.Data)
	if err != nil {
		return nil, err
	}
	return &Result{Outputs: []concordance.Output{*out}}, nil
}

// extract covers the transforms reading an annotated document.
type extract struct {
	kind     Kind
	registry *validate.Registry
	now      func() time.Time
}

func (e *extract) Kind() Kind { return e.kind }

func (e *extract) Transform(ctx context.Context, in file.Input) (*Result, error) {
	slog.Debug("transform", "kind", e.kind, "input", in.Name)
	doc, err := ReadAnnotated(e.registry, in.Data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out concordance.Output
	switch e.kind {
	case ToCSV:
		text, err := (&export.CSV{Now: e.now}).Extract(doc)
		if err != nil {
			return nil, err
		}
		out = concordance.Output{Name: export.CSVName(in.Name), Data: []byte(text)}
	case ToCoNLL:
		text, err := export.CoNLL(doc)
		if err != nil {
			return nil, err
		}
		out = concordance.Output{Name: export.CoNLLName(in.Name), Data: []byte(text)}
	case ToSemanticInfo:
		info := export.SemInfo(doc)
		if err := validate.Require(e.registry.SemInfo, info, nil); err != nil {
			return nil, err
		}
		out = concordance.Output{Name: export.SemInfoName(in.Name), Data: xmldoc.Serialize(info)}
	}
	return &Result{Outputs: []concordance.Output{out}}, nil
}

// ReadAnnotated parses data and validates it as an annotated document,
// document level checks included.
func ReadAnnotated(registry *validate.Registry, data []byte) (*xmldoc.Node, error) {
	doc, err := xmldoc.ParseBytes(data)
	if err != nil {
		return nil, report.NewProcessingError(report.TitleParsing, report.ParsingMessage)
	}
	if err := validate.Require(registry.Annotated, doc, validate.DocumentChecker{}); err != nil {
		return nil, err
	}
	return doc, nil
}
