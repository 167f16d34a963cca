package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filechat/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func names(uploads []domain.Upload) []string {
	out := make([]string, len(uploads))
	for i, u := range uploads {
		out[i] = u.Name
	}
	return out
}

func TestLoadLiteralPaths(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.txt", "bee")
	a := writeFile(t, dir, "a.txt", "ay")

	uploads, err := Load([]string{b, a}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "a.txt"}, names(uploads))
	assert.Equal(t, []byte("bee"), uploads[0].Data)
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.md", "1")
	writeFile(t, dir, "two.md", "2")
	writeFile(t, dir, "skip.txt", "x")

	uploads, err := Load([]string{filepath.Join(dir, "*.md")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one.md", "two.md"}, names(uploads))
}

func TestLoadDirectoryFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.txt", "z")
	writeFile(t, dir, "a.PDF", "%PDF")
	writeFile(t, dir, "image.png", "png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	uploads, err := Load([]string{dir}, []string{".txt", ".pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.PDF", "z.txt"}, names(uploads))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(nil, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = Load([]string{t.TempDir()}, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = Load([]string{filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("a.TXT", []string{".txt"}))
	assert.False(t, HasExtension("a.txt", []string{".pdf"}))
	assert.True(t, HasExtension("anything", nil))
}
