package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/mangalam-research/mmwp/storage"
)

type ArtifactStore struct {
	pool *sqlitex.Pool
}

var _ storage.ArtifactRepository = (*ArtifactStore)(nil)

func NewArtifactStore(pool *sqlitex.Pool) *ArtifactStore {
	return &ArtifactStore{pool: pool}
}

func (h *ArtifactStore) Close() error {
	return h.pool.Close()
}

func (h *ArtifactStore) List(ctx context.Context) ([]storage.Artifact, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var artifacts []storage.Artifact
	err = sqlitex.Execute(conn, "SELECT id, name, kind, digest, created FROM artifacts ORDER BY name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			a, err := scanArtifact(stmt)
			if err != nil {
				return err
			}
			artifacts = append(artifacts, a)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (h *ArtifactStore) GetByName(ctx context.Context, name string) (storage.Artifact, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return storage.Artifact{}, err
	}
	defer h.pool.Put(conn)

	var a storage.Artifact
	found := false
	err = sqlitex.Execute(conn, "SELECT id, name, kind, digest, created, data FROM artifacts WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var err error
			if a, err = scanArtifact(stmt); err != nil {
				return err
			}
			a.Data = make([]byte, stmt.ColumnLen(5))
			stmt.ColumnBytes(5, a.Data)
			found = true
			return nil
		},
	})
	if err != nil {
		return storage.Artifact{}, err
	}
	if !found {
		return storage.Artifact{}, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}
	return a, nil
}

func (h *ArtifactStore) Exists(ctx context.Context, name string) (bool, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return false, err
	}
	defer h.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM artifacts WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	return found, err
}

func (h *ArtifactStore) Write(ctx context.Context, a storage.Artifact) (_ storage.Artifact, err error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return storage.Artifact{}, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "SELECT id FROM artifacts WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{a.Name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id, err := uuid.Parse(stmt.ColumnText(0))
			if err != nil {
				return err
			}
			a.ID = id
			return nil
		},
	})
	if err != nil {
		return storage.Artifact{}, fmt.Errorf("failed to look up artifact: %w", err)
	}

	data := a.Data
	if data == nil {
		data = []byte{}
	}
	err = sqlitex.Execute(conn, `INSERT INTO artifacts (id, name, kind, digest, created, data) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET kind = excluded.kind, digest = excluded.digest, created = excluded.created, data = excluded.data`,
		&sqlitex.ExecOptions{
			Args: []any{a.ID.String(), a.Name, string(a.Kind), a.Digest, a.Created.UTC().Format(time.RFC3339Nano), data},
		})
	if err != nil {
		return storage.Artifact{}, fmt.Errorf("failed to write artifact: %w", err)
	}
	return a, nil
}

func scanArtifact(stmt *sqlite.Stmt) (storage.Artifact, error) {
	id, err := uuid.Parse(stmt.ColumnText(0))
	if err != nil {
		return storage.Artifact{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(4))
	if err != nil {
		return storage.Artifact{}, err
	}
	return storage.Artifact{
		ID:      id,
		Name:    stmt.ColumnText(1),
		Kind:    storage.Kind(stmt.ColumnText(2)),
		Digest:  stmt.ColumnText(3),
		Created: created,
	}, nil
}
