package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/edit"
	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/report"
	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/xmldoc"
)

func editCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "number the sentences and words of an annotated document interactively",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("edit takes exactly one document")
			}
			repo, err := e.repository()
			if err != nil {
				return err
			}
			in, err := readInput(c.Context, repo, c.Args().First())
			if err != nil {
				return err
			}
			doc, err := xmldoc.ParseBytes(in.Data)
			if err != nil {
				return report.NewProcessingError(report.TitleParsing, report.ParsingMessage)
			}

			hdl := edit.NewHandler(in.Name, edit.NewSession(doc, nil), saver(c.Context, repo, in))
			hdl.Out = e.ui.Out
			return hdl.Run()
		},
	}
}

// saver writes an edited document back where it was read from.
func saver(ctx context.Context, repo storage.ArtifactWriter, in file.Input) func([]byte) error {
	if in.Path != "" {
		return func(data []byte) error {
			if err := os.WriteFile(in.Path, data, 0o644); err != nil {
				return fmt.Errorf("IO error: %w", err)
			}
			return nil
		}
	}
	return func(data []byte) error {
		_, err := repo.Write(ctx, storage.NewArtifact(in.Name, storage.KindAnnotated, data))
		return err
	}
}
