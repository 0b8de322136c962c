package iff

import "fmt"

// File is an archive loaded from disk.
//
// On unix systems the file is memory-mapped read-only and chunk payloads
// alias the mapping: they stay valid until Close and must not be written.
// Use Chunk.Clone before modifying a payload.
type File struct {
	*Archive
	Path string

	data  []byte
	unmap func([]byte) error
}

// Open loads and parses the archive at path.
func Open(path string) (*File, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, fmt.Errorf("load archive %s: %w", path, err)
	}

	a, err := Parse(data)
	if err != nil {
		if unmap != nil {
			_ = unmap(data)
		}
		return nil, fmt.Errorf("parse archive %s: %w", path, err)
	}

	return &File{Archive: a, Path: path, data: data, unmap: unmap}, nil
}

// Bytes returns the raw archive bytes.
func (f *File) Bytes() []byte {
	return f.data
}

// Close releases the mapping. Chunk payloads must not be used afterwards.
func (f *File) Close() error {
	if f.unmap == nil || f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	if err := f.unmap(data); err != nil {
		return fmt.Errorf("unmap %s: %w", f.Path, err)
	}
	return nil
}
