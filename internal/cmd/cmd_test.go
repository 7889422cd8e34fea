package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/rpick/internal/catalog"
	"github.com/runger/rpick/internal/source"
)

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIndexDirCatalogsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("aa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.txt"), []byte("b"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "gamma.txt"), nil, 0o644))

	store := openTestStore(t)
	n, err := indexDir(context.Background(), store, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	page, err := store.FetchPage(context.Background(), "", 10)
	require.NoError(t, err)
	names := make([]string, 0, len(page.Items))
	for _, e := range page.Items {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"alpha.txt", "beta.txt", "gamma.txt"}, names)
}

func TestIndexDirIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("x"), 0o644))

	store := openTestStore(t)
	_, err := indexDir(context.Background(), store, dir)
	require.NoError(t, err)
	_, err = indexDir(context.Background(), store, dir)
	require.NoError(t, err)

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestIndexReaderStoresDetailAsPath(t *testing.T) {
	input := "report.pdf\t/srv/docs/report.pdf\n\nnotes.md\n"

	store := openTestStore(t)
	n, err := indexReader(context.Background(), store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	page, err := store.FetchPage(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	byName := map[string]string{}
	for _, e := range page.Items {
		byName[e.Name] = e.Path
	}
	assert.Equal(t, "/srv/docs/report.pdf", byName["report.pdf"])
	assert.Equal(t, "", byName["notes.md"])
}

func TestFormatEntry(t *testing.T) {
	assert.Equal(t, "host-1", formatEntry(source.Entry{Name: "host-1"}))
	assert.Equal(t, "host-1\t10.0.0.1", formatEntry(source.Entry{Name: "host-1", Detail: "10.0.0.1"}))
}

func TestPickRejectsConflictingSources(t *testing.T) {
	rootCmd.SetArgs([]string{"pick", "--cmd", "ls", "--catalog"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}
