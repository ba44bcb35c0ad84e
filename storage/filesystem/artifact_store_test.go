package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangalam-research/mmwp/storage"
)

func TestArtifactStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewArtifactStore(dir)
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "b.xml")
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := s.Write(ctx, storage.NewArtifact("b.xml", storage.KindAnnotated, []byte("<doc/>")))
	require.NoError(t, err)
	_, err = s.Write(ctx, storage.NewArtifact("a.csv", storage.KindCSV, []byte("id\n")))
	require.NoError(t, err)

	ok, err = s.Exists(ctx, "b.xml")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.csv", list[0].Name)
	assert.Equal(t, "b.xml", list[1].Name)
	assert.Nil(t, list[1].Data)

	got, err := s.GetByName(ctx, "b.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("<doc/>"), got.Data)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, storage.Digest([]byte("<doc/>")), got.Digest)

	content, err := os.ReadFile(filepath.Join(dir, "b.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<doc/>", string(content))
}

func TestArtifactStoreOverwriteKeepsID(t *testing.T) {
	ctx := context.Background()
	s, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	first, err := s.Write(ctx, storage.NewArtifact("a.xml", storage.KindConcordance, []byte("one")))
	require.NoError(t, err)
	second, err := s.Write(ctx, storage.NewArtifact("a.xml", storage.KindConcordance, []byte("two")))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.GetByName(ctx, "a.xml")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got.Data))
}

func TestArtifactStoreErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewArtifactStore(dir)
	require.NoError(t, err)

	_, err = s.GetByName(ctx, "missing.xml")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	for _, name := range []string{"", "../x", "a/b", IndexName} {
		_, err = s.Write(ctx, storage.NewArtifact(name, storage.KindCSV, nil))
		assert.Error(t, err, name)
	}

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewArtifactStore(file)
	assert.Error(t, err)
}
