package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/transform"
	"github.com/mangalam-research/mmwp/validate"
)

var outFlag = &cli.StringFlag{
	Name:    "out",
	Aliases: []string{"o"},
	Usage:   "write outputs to `DIR`",
}

func convertCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert concordance exports to annotated documents, one per title",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			outFlag,
			&cli.IntFlag{Name: "workers", Usage: "titles converted at once (0: one per CPU)"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("workers") {
				e.cfg.Transform.Workers = c.Int("workers")
			}
			return e.transform(c, transform.ToAnnotated, true)
		},
	}
}

func cleanupCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "cleanup",
		Usage:     "deduplicate and normalize the lines of concordance exports",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			outFlag,
			&cli.BoolFlag{Name: "overwrite", Usage: "replace the input instead of writing NAME-cleaned"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("overwrite") {
				e.cfg.Transform.Overwrite = c.Bool("overwrite")
			}
			return e.transform(c, transform.CleanupOnly, true)
		},
	}
}

var exportKinds = map[string]transform.Kind{
	"csv":     transform.ToCSV,
	"conll":   transform.ToCoNLL,
	"seminfo": transform.ToSemanticInfo,
}

func exportCommand(e *env, name, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			outFlag,
			&cli.BoolFlag{Name: "save", Usage: "also save the outputs to the store"},
		},
		Action: func(c *cli.Context) error {
			return e.transform(c, exportKinds[name], c.Bool("save"))
		},
	}
}

// transform runs the transform of kind k over the command arguments.
// Outputs go to the store when save is set, and to files when --out is
// given or the transform is an export.
func (e *env) transform(c *cli.Context, k transform.Kind, save bool) error {
	ctx := c.Context
	repo, err := e.repository()
	if err != nil {
		return err
	}
	inputs, err := readInputs(ctx, repo, c.Args().Slice())
	if err != nil {
		return err
	}

	t, err := transform.New(k, transform.Deps{
		Registry:  validate.NewRegistry(),
		Names:     repo,
		Workers:   e.cfg.Transform.Workers,
		Overwrite: e.cfg.Transform.Overwrite,
	})
	if err != nil {
		return err
	}

	results, err := e.runAll(ctx, t, inputs)
	if err != nil {
		return err
	}

	// outputs of different inputs must not collide either
	seen := map[string]bool{}
	for _, res := range results {
		for _, out := range res.Outputs {
			if seen[out.Name] {
				return report.NewProcessingError(report.TitleFileName, "This would overwrite: "+out.Name)
			}
			seen[out.Name] = true
		}
	}

	toFiles := c.String("out") != "" || !save
	for i, res := range results {
		for _, w := range res.Warnings {
			fmt.Fprintf(e.ui.Err, "⚠ %s: %s\n", inputs[i].Name, w)
		}
		for _, out := range res.Outputs {
			if save {
				if _, err := repo.Write(ctx, storage.NewArtifact(out.Name, k.Produces(), out.Data)); err != nil {
					return fmt.Errorf("saving %s: %w", out.Name, err)
				}
				fmt.Fprintf(e.ui.Out, "✔ %s\n", out.Name)
			}
			if toFiles {
				path, err := file.WriteOutput(outDir(c.String("out"), inputs[i]), out.Name, out.Data)
				if err != nil {
					return fmt.Errorf("IO error: %w", err)
				}
				fmt.Fprintf(e.ui.Out, "✔ %s\n", path)
			}
		}
	}
	return nil
}

// outDir is dir if given, else the directory of the input file.
func outDir(dir string, in file.Input) string {
	if dir != "" {
		return dir
	}
	if in.Path != "" {
		return filepath.Dir(in.Path)
	}
	return file.OutDir
}

// runAll transforms the inputs concurrently and returns the results in
// input order. The first failure in input order is returned.
func (e *env) runAll(ctx context.Context, t transform.Transform, inputs []file.Input) ([]*transform.Result, error) {
	results := make([]*transform.Result, len(inputs))
	errs := make([]error, len(inputs))

	var bar *uiprogress.Bar
	if len(inputs) > 1 {
		progress := uiprogress.New()
		progress.SetOut(e.ui.Err)
		progress.Start()
		defer progress.Stop()
		bar = progress.AddBar(len(inputs))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			results[i], errs[i] = t.Transform(gctx, in)
			if bar != nil {
				bar.Incr()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inputs[i].Name, err)
		}
	}
	return results, nil
}
