package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boatswain.sh/boatswain/internal/ingest"
)

func TestFromReaderSplitsMultiDocumentYAML(t *testing.T) {
	const doc = `
apiVersion: v1
kind: ConfigMap
metadata:
  name: a
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: b
`
	objs, err := ingest.FromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "a", objs[0].GetName())
	assert.Equal(t, "b", objs[1].GetName())
}

func TestFromReaderSkipsEmptyDocuments(t *testing.T) {
	const doc = `
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: a
---
---
`
	objs, err := ingest.FromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, objs, 1)
}

func TestFromReaderPropagatesMissingTypeInfo(t *testing.T) {
	const doc = `
metadata:
  name: a
`
	_, err := ingest.FromReader(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestFromPathsReadsDirectoryRecursivelySorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: b\n"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.yml"), []byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	objs, err := ingest.FromPaths([]string{dir})
	require.NoError(t, err)
	require.Len(t, objs, 2)
	// dir/b.yaml sorts before dir/sub/a.yml lexicographically
	assert.Equal(t, "b", objs[0].GetName())
	assert.Equal(t, "a", objs[1].GetName())
}

func TestFromPathsMissingFileReturnsIngestError(t *testing.T) {
	_, err := ingest.FromPaths([]string{"/no/such/file.yaml"})
	require.Error(t, err)
	var ingestErr *ingest.Error
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, "/no/such/file.yaml", ingestErr.Path)
}
