package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

// AttachmentStore keeps ticket attachments on disk under a private root.
// Files are never exposed by path; handlers mint short-lived signed URLs
// that resolve through Open.
type AttachmentStore struct {
	root string
}

// NewAttachmentStore creates the store, making the root directory if needed
func NewAttachmentStore(root string) (*AttachmentStore, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create attachment root: %w", err)
	}
	return &AttachmentStore{root: root}, nil
}

// Save writes the attachment and returns its store-relative path
func (s *AttachmentStore) Save(ticketID uuid.UUID, filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	rel := filepath.Join("tickets", ticketID.String(), uuid.NewString()+"_"+name)

	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return "", fmt.Errorf("failed to create attachment dir: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return rel, nil
}

// Open opens a previously stored attachment by its store-relative path.
// Paths escaping the root are rejected.
func (s *AttachmentStore) Open(rel string) (io.ReadCloser, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}

// Exists reports whether a stored attachment is still present on disk
func (s *AttachmentStore) Exists(rel string) bool {
	abs, err := s.resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes a stored attachment
func (s *AttachmentStore) Delete(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return domainerrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func (s *AttachmentStore) resolve(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.Clean("/"+rel))
	if !strings.HasPrefix(abs, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", domainerrors.ErrNotFound
	}
	return abs, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "attachment"
	}
	return name
}
