package infra

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrDisallowedType is returned for any extension outside the receipt
	// allow-list.
	ErrDisallowedType = errors.New("invalid file type: only PDF, JPG and PNG are allowed")
	// ErrTooLarge is returned when the upload exceeds the configured bound.
	ErrTooLarge = errors.New("attachment exceeds the maximum allowed size")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AttachmentStore writes receipt attachments to local disk. Writes are not
// transactional with the purchase insert: a crash in between can leave an
// orphaned file, which is accepted for this system.
type AttachmentStore struct {
	dir      string
	maxBytes int64
}

func NewAttachmentStore(dir string, maxBytes int64) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &AttachmentStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save validates the upload against the extension allow-list and size bound,
// then stores it under a timestamp-prefixed sanitized name. The returned path
// is the relative URL recorded on the purchase.
func (s *AttachmentStore) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", ErrDisallowedType
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102150405"), sanitizeFilename(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "uploads/" + name, nil
}

// Writable verifies the attachment directory still accepts writes. The
// health endpoint calls this so a full or read-only disk surfaces before an
// upload fails mid-request.
func (s *AttachmentStore) Writable() error {
	f, err := os.CreateTemp(s.dir, ".writecheck-")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}

// sanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] so the name is safe to join onto the storage dir.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "attachment"
	}
	return out
}
