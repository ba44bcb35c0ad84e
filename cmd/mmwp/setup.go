package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mangalam-research/mmwp/storage"
	"github.com/mangalam-research/mmwp/storage/filesystem"
	"github.com/mangalam-research/mmwp/storage/sqlite/zombiezen"
)

// NewArtifactRepository opens the store at path: a directory is a
// filesystem store, anything else a sqlite database, created if missing.
func NewArtifactRepository(p *Pool, path string) (storage.ArtifactRepository, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		slog.Debug("artifact store", "kind", "filesystem", "path", path)
		return filesystem.NewArtifactStore(path)
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	slog.Debug("artifact store", "kind", "sqlite", "path", path)
	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewArtifactStore(pool), nil
}

func (e *env) repository() (storage.ArtifactRepository, error) {
	return NewArtifactRepository(e.pool, e.cfg.Store.Path)
}
