package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/stat"
	"github.com/mangalam-research/mmwp/transform"
	"github.com/mangalam-research/mmwp/validate"
)

func statCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "count the citations, sentences and words of annotated documents",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			repo, err := e.repository()
			if err != nil {
				return err
			}
			inputs, err := readInputs(c.Context, repo, c.Args().Slice())
			if err != nil {
				return err
			}

			registry := validate.NewRegistry()
			hdl := stat.NewHandler()
			for _, in := range inputs {
				doc, err := transform.ReadAnnotated(registry, in.Data)
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}
				hdl.Aggregate(doc)
			}

			render.StatTable(e.ui.Out, hdl.Get())
			return nil
		},
	}
}
