package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := New()

	target := filepath.Join(dir, "out", "target.mgf")
	require.NoError(t, src.Write(ctx, target, []byte("BEGIN IONS\nEND IONS\n")))

	data, err := src.Read(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN IONS\nEND IONS\n", string(data))

	ok, err := src.Exists(ctx, target)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadMissing(t *testing.T) {
	_, err := New().Read(context.Background(), filepath.Join(t.TempDir(), "missing.mgf"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	entries, err := New().List(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a.txt", entries[0].Name)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, filepath.Join(dir, "a.txt"), entries[0].Path)

	assert.Equal(t, "b", entries[1].Name)
	assert.True(t, entries[1].IsDir)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "s3://bucket/x.mgf", Location("s3://bucket/x.mgf"))
	assert.Equal(t, "file:///tmp/x.mgf", Location("/tmp/x.mgf"))
	assert.Equal(t, filepath.Join("a", "b"), Join("a", "b"))
}
