package container

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
)

// Archive reads entries from a zip-packed container.
type Archive struct {
	files  map[string]*zip.File
	closer io.Closer
}

// OpenArchive opens a zip container from disk.
// The caller must Close the archive when done.
func OpenArchive(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	a := newArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// NewArchive reads a zip container of the given size from r.
func NewArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return newArchive(zr), nil
}

func newArchive(zr *zip.Reader) *Archive {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &Archive{files: files}
}

// Entries returns the number of entries in the archive.
func (a *Archive) Entries() int {
	return len(a.files)
}

// ReadText reads a text entry.
func (a *Archive) ReadText(ctx context.Context, name string) ([]string, error) {
	data, err := a.read(ctx, name)
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
func (a *Archive) ReadBinary(ctx context.Context, name string) ([]byte, error) {
	data, err := a.read(ctx, name)
	if err != nil {
		return nil, binaryErr(name, err)
	}
	return data, nil
}

// Close releases the underlying file, if the archive was opened from disk.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *Archive) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, ok := a.files[clean]
	if !ok {
		return nil, ErrNotFound
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer func() {
		_ = rc.Close() // Ignore close error on read-only entry.
	}()

	// Sanity check: entries are descriptors, label lists and single trees.
	if f.UncompressedSize64 > 1<<31 {
		return nil, fmt.Errorf("entry too large: %d bytes", f.UncompressedSize64)
	}
	data := make([]byte, f.UncompressedSize64)
	if _, err := io.ReadFull(rc, data); err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	return data, nil
}
