package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File is a Backend keeping one file per slot under a directory.
type File struct {
	dir string
}

// NewFile returns a file backend rooted at dir. The directory is created
// on the first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Get implements Backend.
func (f *File) Get(_ context.Context, name string) (string, bool, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read slot %s: %w", name, err)
	}
	return string(data), true, nil
}

// Put implements Backend.
func (f *File) Put(_ context.Context, name, value string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(f.path(name), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	return nil
}

// Delete implements Backend.
func (f *File) Delete(_ context.Context, name string) error {
	if err := os.Remove(f.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	return nil
}
