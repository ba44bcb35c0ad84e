package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/storage"
)

func lsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "list the artifacts of the store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Usage: "only list artifacts of `KIND`"},
		},
		Action: func(c *cli.Context) error {
			repo, err := e.repository()
			if err != nil {
				return err
			}
			artifacts, err := repo.List(c.Context)
			if err != nil {
				return err
			}

			if kind := c.String("kind"); kind != "" {
				var kept []storage.Artifact
				for _, a := range artifacts {
					if string(a.Kind) == kind {
						kept = append(kept, a)
					}
				}
				artifacts = kept
			}

			render.ArtifactTable(e.ui.Out, artifacts)
			return nil
		},
	}
}
