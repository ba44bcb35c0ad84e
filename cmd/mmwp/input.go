package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mangalam-research/mmwp/file"
	"github.com/mangalam-research/mmwp/storage"
)

// readInput reads arg from disk, or from the store when no such file
// exists.
func readInput(ctx context.Context, repo storage.ArtifactReader, arg string) (file.Input, error) {
	if _, err := os.Stat(arg); err == nil {
		in, err := file.ReadInput(arg)
		if err != nil {
			return file.Input{}, fmt.Errorf("IO error: %w", err)
		}
		return in, nil
	}

	a, err := repo.GetByName(ctx, arg)
	if errors.Is(err, storage.ErrNotFound) {
		return file.Input{}, fmt.Errorf("no file or artifact named %s", arg)
	}
	if err != nil {
		return file.Input{}, err
	}
	return file.Input{Name: a.Name, Data: a.Data}, nil
}

func readInputs(ctx context.Context, repo storage.ArtifactReader, args []string) ([]file.Input, error) {
	if len(args) == 0 {
		return nil, errors.New("no input given")
	}
	inputs := make([]file.Input, 0, len(args))
	for _, arg := range args {
		in, err := readInput(ctx, repo, arg)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
