package iff

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Directory payload constants.
const (
	directoryVersion    = 0
	directoryMagic      = "pmsr"
	directoryHeaderSize = 20
)

// DirectoryEntry locates one chunk inside the archive.
type DirectoryEntry struct {
	Offset uint32
	ID     ChunkID
	Flags  uint16
	Label  string
}

// DirectoryType groups the entries of one chunk type.
type DirectoryType struct {
	Type    string
	Entries []DirectoryEntry
}

// Directory is the decoded payload of an rsmp chunk.
type Directory struct {
	// Size is the total rsmp chunk size recorded in the payload.
	Size  uint32
	Types []DirectoryType
}

// Locates reports whether an entry lists the chunk of the given type and id
// at offset. Archives may hold several chunks with the same type and id.
func (d *Directory) Locates(typ string, id ChunkID, offset uint32) bool {
	for _, t := range d.Types {
		if t.Type != typ {
			continue
		}
		for _, e := range t.Entries {
			if e.ID == id && e.Offset == offset {
				return true
			}
		}
	}
	return false
}

// Len returns the number of entries across all types.
func (d *Directory) Len() int {
	n := 0
	for _, t := range d.Types {
		n += len(t.Entries)
	}
	return n
}

// BuildDirectory builds the rsmp chunk for chunks laid out contiguously after
// the preamble. The directory itself is not listed.
func BuildDirectory(chunks []Chunk) (Chunk, error) {
	offsets := chunkOffsets(chunks)

	var order []string
	byType := make(map[string][]int)
	for i, c := range chunks {
		typ := c.Type()
		if _, ok := byType[typ]; !ok {
			order = append(order, typ)
		}
		byType[typ] = append(byType[typ], i)
	}

	var body bytes.Buffer
	for _, typ := range order {
		tag := []byte(typ)
		body.Write([]byte{tag[3], tag[2], tag[1], tag[0]})
		writeU32(&body, uint32(len(byType[typ])))

		for _, i := range byType[typ] {
			h := chunks[i].Header
			n, err := h.labelLength()
			if err != nil {
				return Chunk{}, err
			}
			writeU32(&body, offsets[i])
			writeU16(&body, uint16(h.ID))
			writeU16(&body, h.Flags)
			body.Write(h.Label[:n])
			if n%2 != 0 {
				body.WriteByte(0)
			}
		}
	}

	size := ChunkHeaderSize + directoryHeaderSize + body.Len()
	payload := make([]byte, 0, directoryHeaderSize+body.Len())
	payload = binary.LittleEndian.AppendUint32(payload, 0)
	payload = binary.LittleEndian.AppendUint32(payload, directoryVersion)
	payload = append(payload, directoryMagic...)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(size))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(order)))
	payload = append(payload, body.Bytes()...)

	return NewChunk(TypeDirectory, 0, "", payload)
}

// ParseDirectory decodes an rsmp chunk payload.
func ParseDirectory(c Chunk) (*Directory, error) {
	if c.Type() != TypeDirectory {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDecode, c)
	}
	r := &reader{data: c.Data}
	r.u32() // reserved
	r.u32() // version
	magic := r.bytes(4)
	size := r.u32()
	typeCount := r.u32()
	if r.err != nil {
		return nil, fmt.Errorf("directory header: %w", r.err)
	}
	if string(magic) != directoryMagic {
		return nil, fmt.Errorf("%w: directory magic %q", ErrDecode, magic)
	}

	d := &Directory{Size: size}
	for range typeCount {
		tag := r.bytes(4)
		count := r.u32()
		if r.err != nil {
			return nil, fmt.Errorf("directory type: %w", r.err)
		}
		t := DirectoryType{Type: string([]byte{tag[3], tag[2], tag[1], tag[0]})}
		for range count {
			e := DirectoryEntry{
				Offset: r.u32(),
				ID:     ChunkID(r.u16()),
				Flags:  r.u16(),
			}
			e.Label = r.label()
			if r.err != nil {
				return nil, fmt.Errorf("directory entry for %s: %w", t.Type, r.err)
			}
			t.Entries = append(t.Entries, e)
		}
		d.Types = append(d.Types, t)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing directory bytes", ErrDecode, r.remaining())
	}
	return d, nil
}

func writeU32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

func writeU16(b *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Write(tmp[:])
}

// reader decodes little-endian fields and remembers the first truncation.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if len(r.data)-r.pos < n {
		r.err = fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncated, n, r.pos, len(r.data)-r.pos)
		return make([]byte, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u32() uint32 {
	return binary.LittleEndian.Uint32(r.bytes(4))
}

func (r *reader) u16() uint16 {
	return binary.LittleEndian.Uint16(r.bytes(2))
}

// label reads a NUL-terminated string padded to an even length.
func (r *reader) label() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		r.err = fmt.Errorf("%w: unterminated label at %d", ErrTruncated, r.pos)
		return ""
	}
	n := i + 1
	if n%2 != 0 {
		n++
	}
	s := string(r.data[r.pos : r.pos+i])
	r.bytes(n)
	return s
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}
