package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/storage"
)

func copyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "copy every artifact of the store to another store",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("copy takes exactly one target store")
			}
			to := c.Args().First()
			if to == e.cfg.Store.Path {
				return errors.New("source and target stores are the same")
			}

			src, err := e.repository()
			if err != nil {
				return err
			}
			// the target gets its own pool
			target := &Pool{}
			defer target.Close()
			dst, err := NewArtifactRepository(target, to)
			if err != nil {
				return err
			}

			artifacts, err := src.List(c.Context)
			if err != nil {
				return err
			}

			progress := uiprogress.New()
			progress.SetOut(e.ui.Err)
			progress.Start()
			bar := progress.AddBar(len(artifacts))
			bar.AppendCompleted()
			bar.PrependElapsed()

			count := 0
			for _, meta := range artifacts {
				a, err := src.GetByName(c.Context, meta.Name)
				if err != nil {
					progress.Stop()
					return fmt.Errorf("failed to read artifact %s: %w", meta.Name, err)
				}
				if _, err := dst.Write(c.Context, storage.NewArtifact(a.Name, a.Kind, a.Data)); err != nil {
					progress.Stop()
					return fmt.Errorf("failed to write artifact %s: %w", a.Name, err)
				}
				count++
				bar.Incr()
			}
			progress.Stop()

			fmt.Fprintf(e.ui.Out, "Successfully copied %d artifacts from %s to %s\n", count, e.cfg.Store.Path, to)
			return nil
		},
	}
}
