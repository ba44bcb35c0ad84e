package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Kind tells what an artifact holds.
type Kind string

const (
	KindConcordance Kind = "concordance"
	KindAnnotated   Kind = "annotated"
	KindCSV         Kind = "csv"
	KindCoNLL       Kind = "conll"
	KindSemInfo     Kind = "seminfo"
)

// ErrNotFound is returned when no artifact has the requested name.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a named document kept in a store. Names are unique within
// a store.
type Artifact struct {
	ID      uuid.UUID
	Name    string
	Kind    Kind
	Digest  string
	Created time.Time

	// Data is not loaded by List.
	Data []byte
}

// NewArtifact returns an artifact with a fresh id and the digest of data.
func NewArtifact(name string, kind Kind, data []byte) Artifact {
	return Artifact{
		ID:      uuid.New(),
		Name:    name,
		Kind:    kind,
		Digest:  Digest(data),
		Created: time.Now().UTC(),
		Data:    data,
	}
}

// Digest returns the hex encoded blake3 hash of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactReader defines read operations for artifact storage
type ArtifactReader interface {
	// List returns the metadata of every artifact, sorted by name.
	List(ctx context.Context) ([]Artifact, error)

	// GetByName returns the artifact called name, content included, or
	// ErrNotFound.
	GetByName(ctx context.Context, name string) (Artifact, error)

	// Exists reports whether an artifact is called name.
	Exists(ctx context.Context, name string) (bool, error)
}

// ArtifactWriter defines write operations for artifact storage
type ArtifactWriter interface {
	// Write stores a. An artifact with the same name is replaced but
	// keeps its id. The stored artifact is returned.
	Write(ctx context.Context, a Artifact) (Artifact, error)
}

// ArtifactRepository combines read and write operations
type ArtifactRepository interface {
	ArtifactReader
	ArtifactWriter
}
