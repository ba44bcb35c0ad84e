package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mangalam-research/mmwp/storage"
)

// IndexName is the file, inside the store directory, holding artifact
// metadata. Artifact contents are plain files named after the artifact.
const IndexName = ".mmwp-index.json"

type record struct {
	ID      uuid.UUID    `json:"id"`
	Kind    storage.Kind `json:"kind"`
	Digest  string       `json:"digest"`
	Created time.Time    `json:"created"`
}

type ArtifactStore struct {
	dir string

	mu sync.Mutex
}

var _ storage.ArtifactRepository = (*ArtifactStore)(nil)

// NewArtifactStore returns a store kept in dir, which must exist.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	return &ArtifactStore{dir: dir}, nil
}

func (s *ArtifactStore) List(_ context.Context) ([]storage.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	slices.Sort(names)

	artifacts := make([]storage.Artifact, 0, len(names))
	for _, name := range names {
		artifacts = append(artifacts, index[name].artifact(name))
	}
	return artifacts, nil
}

func (s *ArtifactStore) GetByName(_ context.Context, name string) (storage.Artifact, error) {
	if err := checkName(name); err != nil {
		return storage.Artifact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return storage.Artifact{}, err
	}
	rec, ok := index[name]
	if !ok {
		return storage.Artifact{}, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return storage.Artifact{}, fmt.Errorf("IO error: %w", err)
	}
	a := rec.artifact(name)
	a.Data = data
	return a, nil
}

func (s *ArtifactStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return false, err
	}
	_, ok := index[name]
	return ok, nil
}

func (s *ArtifactStore) Write(_ context.Context, a storage.Artifact) (storage.Artifact, error) {
	if err := checkName(a.Name); err != nil {
		return storage.Artifact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return storage.Artifact{}, err
	}
	if old, ok := index[a.Name]; ok {
		a.ID = old.ID
	}

	if err := writeAtomic(filepath.Join(s.dir, a.Name), a.Data); err != nil {
		return storage.Artifact{}, err
	}
	index[a.Name] = record{ID: a.ID, Kind: a.Kind, Digest: a.Digest, Created: a.Created}
	if err := s.writeIndex(index); err != nil {
		return storage.Artifact{}, err
	}
	return a, nil
}

func (r record) artifact(name string) storage.Artifact {
	return storage.Artifact{ID: r.ID, Name: name, Kind: r.Kind, Digest: r.Digest, Created: r.Created}
}

func (s *ArtifactStore) readIndex() (map[string]record, error) {
	index := map[string]record{}
	data, err := os.ReadFile(filepath.Join(s.dir, IndexName))
	if errors.Is(err, fs.ErrNotExist) {
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}
	return index, nil
}

func (s *ArtifactStore) writeIndex(index map[string]record) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, IndexName), data)
}

// writeAtomic writes data to a temporary file renamed over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func checkName(name string) error {
	if name == "" || name == IndexName || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid artifact name: %q", name)
	}
	return nil
}
