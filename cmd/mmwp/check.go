package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/transform"
	"github.com/mangalam-research/mmwp/validate"
)

func checkCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "validate annotated documents",
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
			failed := 0
			for _, in := range inputs {
				_, err := transform.ReadAnnotated(registry, in.Data)
				if pe, ok := report.AsProcessingError(err); ok {
					failed++
					fmt.Fprintf(e.ui.Out, "❌ %s: %s\n", in.Name, pe)
					continue
				}
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}
				fmt.Fprintf(e.ui.Out, "✔ %s\n", in.Name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents are invalid", failed, len(inputs))
			}
			return nil
		},
	}
}
