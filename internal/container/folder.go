package container

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Folder reads entries from an unpacked container directory.
type Folder struct {
	root string
}

// NewFolder creates a container rooted at dir.
func NewFolder(dir string) *Folder {
	return &Folder{root: dir}
}

// Root returns the container directory.
func (f *Folder) Root() string {
	return f.root
}

// ReadText reads a text entry.
func (f *Folder) ReadText(ctx context.Context, name string) ([]string, error) {
	data, err := f.read(ctx, name)
	if err != nil {
		return nil, textErr(name, err)
	}
	lines, err := splitLines(data)
	if err != nil {
		return nil, textErr(name, err)
	}
	return lines, nil
}

// ReadBinary reads a binary entry.
func (f *Folder) ReadBinary(ctx context.Context, name string) ([]byte, error) {
	data, err := f.read(ctx, name)
	if err != nil {
		return nil, binaryErr(name, err)
	}
	return data, nil
}

func (f *Folder) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: entry names are validated against the container root.
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
