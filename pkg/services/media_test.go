package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestMediaLibrary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	lib := NewMediaLibrary(dir, "/static/uploads/")
	lib.now = func() time.Time { return time.Unix(1700000000, 0) }

	files, err := lib.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	saved, err := lib.Save(fileHeader(t, "Hero Shot.PNG", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "hero-shot_1700000000.png", saved.Name)
	assert.Equal(t, "/static/uploads/hero-shot_1700000000.png", saved.Path)
	assert.EqualValues(t, 3, saved.Size)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	files, err = lib.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, saved.Path, files[0].Path)

	require.NoError(t, lib.Delete(saved.Name))
	assert.ErrorIs(t, lib.Delete(saved.Name), os.ErrNotExist)
}

func TestMediaLibraryRejects(t *testing.T) {
	lib := NewMediaLibrary(t.TempDir(), "/static/uploads")

	_, err := lib.Save(fileHeader(t, "script.js", []byte("alert(1)")))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	assert.ErrorIs(t, lib.Delete("../site.yml"), ErrInvalidMediaPath)
	assert.ErrorIs(t, lib.Delete(""), ErrInvalidMediaPath)
}

func TestMediaLibraryDeleteOnlyImages(t *testing.T) {
	dir := t.TempDir()
	lib := NewMediaLibrary(dir, "/static/uploads")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	for _, name := range []string{".", "..", "notes.txt"} {
		assert.ErrorIs(t, lib.Delete(name), ErrInvalidMediaPath, name)
	}
	assert.DirExists(t, dir)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestWriteMediaRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.png")
	failing := io.MultiReader(bytes.NewReader([]byte("half")), iotest.ErrReader(errors.New("connection reset")))

	_, err := writeMedia(path, failing)
	assert.EqualError(t, err, "connection reset")
	assert.NoFileExists(t, path)

	size, err := writeMedia(path, bytes.NewReader([]byte("whole")))
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}
