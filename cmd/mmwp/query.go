package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/query"
	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/search"
)

func queryCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "search lemmas interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "only search the artifact `NAME`"},
			&cli.BoolFlag{Name: "no-color"},
			&cli.BoolFlag{Name: "no-prefix"},
		},
		Action: func(c *cli.Context) error {
			repo, err := e.repository()
			if err != nil {
				return err
			}
			s := search.New(repo)
			if name := c.String("name"); name != "" {
				s.WithName(name)
			}
			lemmas, err := s.Lemmas(c.Context)
			if err != nil {
				return err
			}

			r := render.NewRenderer()
			r.W = e.ui.Out
			r.HasColor = !c.Bool("no-color")
			r.HasPrefix = !c.Bool("no-prefix")

			hdl := query.NewHandler(s, lemmas, r)
			hdl.Out = e.ui.Out
			return hdl.Run(c.Context)
		},
	}
}
