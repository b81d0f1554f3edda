package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/persona/internal/parser"
)

const colorsDoc = `Favorite color
1
Pick a color
2
Red
1 1
Blue
2 1
1
Warm
0 1
2
Warm
Cool
`

const petsDoc = `Pets
0
0
1
Dog
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "colors.txt"), colorsDoc)
	writeFile(t, filepath.Join(dir, "pets.survey"), petsDoc)
	writeFile(t, filepath.Join(dir, "broken.txt"), "Broken\nmany\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a survey")

	c, err := New(dir, Options{})
	require.NoError(t, err)
	return c, dir
}

func TestList(t *testing.T) {
	c, dir := newCatalog(t)

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3, "README.md is not a survey extension")

	assert.Equal(t, filepath.Join(dir, "broken.txt"), entries[0].Path)
	assert.Error(t, entries[0].Err)
	assert.ErrorIs(t, entries[0].Err, parser.ErrParse)

	assert.Equal(t, "Favorite color", entries[1].Title)
	assert.Equal(t, 1, entries[1].Questions)
	assert.NoError(t, entries[1].Err)

	assert.Equal(t, "Pets", entries[2].Title)
	assert.Zero(t, entries[2].Questions)
}

func TestSources(t *testing.T) {
	c, dir := newCatalog(t)
	sources, err := c.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "broken.txt"),
		filepath.Join(dir, "colors.txt"),
		filepath.Join(dir, "pets.survey"),
	}, sources)
}

func TestSourcesMissingRoot(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "missing"), Options{})
	require.NoError(t, err)
	_, err = c.Sources()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadSource(t *testing.T) {
	c, dir := newCatalog(t)

	text, err := c.ReadSource("pets.survey")
	require.NoError(t, err)
	assert.Equal(t, petsDoc, text)

	text, err = c.ReadSource(filepath.Join(dir, "colors.txt"))
	require.NoError(t, err)
	assert.Equal(t, colorsDoc, text)

	_, err = c.ReadSource("nope.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	c, _ := newCatalog(t)

	first, err := c.Load("colors.txt")
	require.NoError(t, err)
	first.Categories[0].Points = 5
	first.Questions[0].Text = "changed"

	second, err := c.Load("colors.txt")
	require.NoError(t, err)
	assert.Zero(t, second.Categories[0].Points)
	assert.Equal(t, "Pick a color", second.Questions[0].Text)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, c.Cached())
}

func TestLoadReparsesChangedFile(t *testing.T) {
	c, dir := newCatalog(t)
	path := filepath.Join(dir, "pets.survey")

	s, err := c.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pets", s.Title)

	writeFile(t, path, "Pets and more\n0\n0\n1\nDog\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	s, err = c.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pets and more", s.Title)
	assert.Equal(t, 2, c.Cached())
}

func TestLoadErrors(t *testing.T) {
	c, _ := newCatalog(t)

	_, err := c.Load("broken.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrParse)
	assert.Contains(t, err.Error(), "broken.txt")

	_, err = c.Load("absent.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCacheEvicts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name), petsDoc)
	}
	c, err := New(dir, Options{CacheSize: 2})
	require.NoError(t, err)

	_, err = c.List()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Cached())
}

func TestRecursiveAndExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.quiz"), petsDoc)
	writeFile(t, filepath.Join(dir, "nested", "inner.quiz"), petsDoc)
	writeFile(t, filepath.Join(dir, "ignored.txt"), petsDoc)

	flat, err := New(dir, Options{Extensions: []string{".quiz"}})
	require.NoError(t, err)
	sources, err := flat.Sources()
	require.NoError(t, err)
	assert.Len(t, sources, 1)

	deep, err := New(dir, Options{Extensions: []string{"quiz"}, Recursive: true})
	require.NoError(t, err)
	sources, err = deep.Sources()
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}
