package infra_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/B0bbyBrown/ExpendiForge/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader the way Gin would hand one to
// the service, by round-tripping a form through the stdlib parser.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("attachment", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["attachment"][0]
}

func TestSaveAcceptsAllowedExtensions(t *testing.T) {
	store, err := infra.NewAttachmentStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	for _, name := range []string{"receipt.pdf", "photo.jpg", "photo.jpeg", "scan.PNG"} {
		path, err := store.Save(fileHeader(t, name, []byte("content")))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(path, "uploads/"), path)
	}
}

func TestSaveWritesFileToDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := infra.NewAttachmentStore(dir, 1<<20)
	require.NoError(t, err)

	path, err := store.Save(fileHeader(t, "receipt.pdf", []byte("pdf bytes")))
	require.NoError(t, err)

	onDisk := filepath.Join(dir, strings.TrimPrefix(path, "uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, err := infra.NewAttachmentStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	for _, name := range []string{"malware.exe", "notes.txt", "archive.zip", "noext"} {
		_, err := store.Save(fileHeader(t, name, []byte("x")))
		assert.ErrorIs(t, err, infra.ErrDisallowedType, name)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store, err := infra.NewAttachmentStore(t.TempDir(), 10)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "receipt.pdf", bytes.Repeat([]byte("a"), 11)))
	assert.ErrorIs(t, err, infra.ErrTooLarge)
}

func TestWritableOnUsableDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := infra.NewAttachmentStore(dir, 1<<20)
	require.NoError(t, err)

	assert.NoError(t, store.Writable())

	// The check leaves nothing behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveSanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	store, err := infra.NewAttachmentStore(dir, 1<<20)
	require.NoError(t, err)

	path, err := store.Save(fileHeader(t, "my receipt (march)!.png", []byte("x")))
	require.NoError(t, err)

	name := strings.TrimPrefix(path, "uploads/")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "(")
	assert.NotContains(t, name, "/")
	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}
