// Package container provides read access to the entries of a persisted model.
//
// A model container holds a text descriptor, optional domain label files and one
// binary blob per compressed tree. The same entries can live in a zip archive,
// a plain directory or any addressable blob store:
//
//	model.ini
//	domains/d000.txt
//	trees/t00_000.bin
//	trees/t00_001.bin
//
// Every implementation answers two questions only: "give me the lines of this
// text entry" and "give me the bytes of this binary entry". Reads are independent
// and uncached.
package container

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
)

// maxLineSize bounds a single text line (labels and descriptor lines are short).
const maxLineSize = 1 << 20

// Container retrieves named entries from a model container.
type Container interface {
	// ReadText returns the lines of a text entry, each trimmed of surrounding whitespace.
	ReadText(ctx context.Context, name string) ([]string, error)

	// ReadBinary returns the raw content of a binary entry.
	ReadBinary(ctx context.Context, name string) ([]byte, error)
}

// Detect opens path as a Folder when it is a directory and as an Archive otherwise.
// The caller closes the returned container when it implements io.Closer.
func Detect(p string) (Container, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat container: %w", err)
	}
	if info.IsDir() {
		return NewFolder(p), nil
	}
	a, err := OpenArchive(p)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// splitLines splits text content into trimmed lines.
func splitLines(data []byte) ([]string, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	lines := make([]string, 0, 50)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}
	return lines, nil
}

// cleanName normalizes an entry name and rejects names escaping the container root.
func cleanName(name string) (string, error) {
	slashed := strings.ReplaceAll(name, "\\", "/")
	if slashed == "" || strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
		}
	}
	return path.Clean(slashed), nil
}
