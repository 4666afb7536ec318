package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueName_SanitizesFilename(t *testing.T) {
	name := UniqueName("mi foto:de\\perfil.jpg")

	assert.True(t, strings.HasSuffix(name, "-mifotodeperfil.jpg"))
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, ":")
	assert.NotContains(t, name, "\\")
}

func TestUniqueName_DistinctForSameOriginal(t *testing.T) {
	first := UniqueName("photo.jpg")
	second := UniqueName("photo.jpg")

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "-photo.jpg"))
	assert.True(t, strings.HasSuffix(second, "-photo.jpg"))
}

func TestPhotoStore_SaveAndRemove(t *testing.T) {
	store := NewPhotoStore(filepath.Join(t.TempDir(), "uploads"))

	n, err := store.Save("a.jpg", strings.NewReader("contenido"))
	assert.NoError(t, err)
	assert.Equal(t, int64(len("contenido")), n)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "a.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	err = store.Remove("a.jpg")
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.Dir(), "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestPhotoStore_RemoveMissingFileIsNoop(t *testing.T) {
	store := NewPhotoStore(t.TempDir())

	assert.NoError(t, store.Remove("no-such-file.jpg"))
	assert.NoError(t, store.Remove(""))
}

func TestPhotoStore_ListFiles(t *testing.T) {
	store := NewPhotoStore(t.TempDir())

	_, err := store.Save("a.jpg", strings.NewReader("a"))
	assert.NoError(t, err)
	_, err = store.Save("b.jpg", strings.NewReader("b"))
	assert.NoError(t, err)

	files, err := store.ListFiles()
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "a.jpg")
	assert.Contains(t, names, "b.jpg")
}

func TestPhotoStore_ListFilesMissingDir(t *testing.T) {
	store := NewPhotoStore(filepath.Join(t.TempDir(), "missing"))

	files, err := store.ListFiles()
	assert.NoError(t, err)
	assert.Nil(t, files)
}
