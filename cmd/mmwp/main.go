package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mangalam-research/mmwp/config"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := run(context.Background(), os.Args, ui); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "mmwp: %v\n", err)
}

func run(ctx context.Context, args []string, ui UI) error {
	return newApp(ui).RunContext(ctx, args)
}

// env is what every command runs with: the loaded configuration, the
// artifact store and the output streams.
type env struct {
	cfg  *config.Config
	pool *Pool
	ui   UI
}

func newApp(ui UI) *cli.App {
	e := &env{pool: &Pool{}, ui: ui}

	return &cli.App{
		Name:      "mmwp",
		Usage:     "convert, clean up, export and check concordance documents",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "store",
				Aliases: []string{"s"},
				Usage:   "artifact store: a directory or a sqlite file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: e.setup,
		After: func(*cli.Context) error {
			return e.pool.Close()
		},
		Commands: []*cli.Command{
			convertCommand(e),
			cleanupCommand(e),
			exportCommand(e, "csv", "extract a CSV table from annotated documents"),
			exportCommand(e, "conll", "extract CoNLL text from annotated documents"),
			exportCommand(e, "seminfo", "summarize the semantic annotations of annotated documents"),
			checkCommand(e),
			editCommand(e),
			lsCommand(e),
			copyCommand(e),
			statCommand(e),
			searchCommand(e),
			queryCommand(e),
			versionCommand(e),
		},
		// errors are printed once by main
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// setup loads the configuration and applies the global flags on top.
func (e *env) setup(c *cli.Context) error {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path, true)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if store := c.String("store"); store != "" {
		cfg.Store.Path = store
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	e.cfg = cfg
	newLogger(cfg.Log, e.ui.Err)
	return nil
}
