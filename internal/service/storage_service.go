package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// IFileStorage keeps uploaded PDFs.
type IFileStorage interface {
	Save(documentId uuid.UUID, r io.Reader) (path string, size int64, err error)
	Read(path string) ([]byte, error)
	Remove(path string) error
}

type localStorage struct {
	dir string
}

func NewLocalStorage(dir string) IFileStorage {
	return &localStorage{dir: dir}
}

func (s *localStorage) Save(documentId uuid.UUID, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create storage dir: %w", err)
	}

	path := filepath.Join(s.dir, documentId.String()+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return path, size, nil
}

func (s *localStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *localStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
