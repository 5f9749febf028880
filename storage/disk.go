package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes photos into Dir; main serves Dir at URLPrefix.
type DiskStore struct {
	Dir       string
	URLPrefix string
}

func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DiskStore) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid photo name %q", name)
	}
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close photo: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}

func (s *DiskStore) Delete(_ context.Context, name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid photo name %q", name)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
