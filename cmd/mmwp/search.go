package main

import (
	"errors"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/render"
	"github.com/mangalam-research/mmwp/search"
)

func searchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find the occurrences of a lemma in the stored annotated documents",
		ArgsUsage: "LEMMA",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "only search the artifact `NAME`"},
			&cli.StringFlag{Name: "format", Value: render.Defaultformat, Usage: "all, part or lemma"},
			&cli.BoolFlag{Name: "json", Usage: "print the hits as JSON"},
			&cli.BoolFlag{Name: "no-color"},
			&cli.BoolFlag{Name: "no-prefix"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("search takes exactly one lemma")
			}
			format := c.String("format")
			if !slices.Contains(render.SupportedFormats(), format) {
				return errors.New("unknown format: " + format)
			}

			repo, err := e.repository()
			if err != nil {
				return err
			}
			s := search.New(repo)
			if name := c.String("name"); name != "" {
				s.WithName(name)
			}

			var hits []search.Hit
			if err := s.Lemma(c.Context, c.Args().First(), func(h search.Hit) error {
				hits = append(hits, h)
				return nil
			}); err != nil {
				return err
			}

			var r render.HitRenderer
			if c.Bool("json") {
				r = render.NewJSONRenderer(e.ui.Out)
			} else {
				tr := render.NewRenderer()
				tr.W = e.ui.Out
				tr.Format = format
				tr.HasColor = !c.Bool("no-color")
				tr.HasPrefix = !c.Bool("no-prefix")
				r = tr
			}
			return r.Render(hits)
		},
	}
}
