package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var _ Blobs = (*Local)(nil)

// Local keeps objects on disk under dir; the router serves them at /uploads.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

func (l *Local) file(objectPath string) string {
	return filepath.Join(l.dir, filepath.FromSlash(objectPath))
}

func (l *Local) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := l.file(objectPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	return f.Close()
}

func (l *Local) URL(objectPath string) string {
	return l.baseURL + "/uploads/" + objectPath
}

func (l *Local) Remove(ctx context.Context, objectPaths ...string) error {
	for _, objectPath := range objectPaths {
		if err := os.Remove(l.file(objectPath)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
