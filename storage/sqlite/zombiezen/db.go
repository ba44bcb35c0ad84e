package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

// NewPool creates a connection pool on the database at dbPath, creating
// it if needed, and makes sure the artifact schema exists.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()
	initString := fmt.Sprintf("file:%s", dbPath)

	// The default flags open read-write, create, WAL and URI.
	pool, err := sqlitex.NewPool(initString, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}

	if err := CreateSchemas(pool, ArtifactsSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
