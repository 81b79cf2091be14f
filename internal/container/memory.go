package container

import (
	"context"
	"maps"
)

// Memory is a map-backed container. It is safe for concurrent reads once populated.
type Memory struct {
	entries map[string][]byte
}

// NewMemory creates a container holding a copy of entries.
func NewMemory(entries map[string][]byte) *Memory {
	m := &Memory{entries: make(map[string][]byte, len(entries))}
	maps.Copy(m.entries, entries)
	return m
}

// Put stores an entry. Not safe to call concurrently with reads.
func (m *Memory) Put(name string, data []byte) {
	m.entries[name] = data
}

// PutText stores a text entry built from lines.
func (m *Memory) PutText(name string, lines ...string) {
	var size int
	for _, l := range lines {
		size += len(l) + 1
	}
	buf := make([]byte, 0, size)
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	m.entries[name] = buf
}

// ReadText reads a text entry.
func (m *Memory) ReadText(ctx context.Context, name string) ([]string, error) {
	data, err := m.get(ctx, name)
	if err != nil {
		return nil, textErr(name, err)
	}
	lines, err := splitLines(data)
	if err != nil {
		return nil, textErr(name, err)
	}
	return lines, nil
}

// ReadBinary reads a binary entry. The returned slice is a copy.
func (m *Memory) ReadBinary(ctx context.Context, name string) ([]byte, error) {
	data, err := m.get(ctx, name)
	if err != nil {
		return nil, binaryErr(name, err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}
