package iff

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ChunkID identifies a chunk within its type in one archive.
type ChunkID int16

// NoChunkID marks an absent chunk reference.
const NoChunkID ChunkID = 0

// ChunkHeader is the 76-byte header preceding every chunk payload.
type ChunkHeader struct {
	Type  [4]byte
	Size  uint32 // header + payload
	ID    ChunkID
	Flags uint16
	Label [LabelSize]byte
}

// TypeString returns the type tag as a string.
func (h ChunkHeader) TypeString() string {
	return string(h.Type[:])
}

// LabelString returns the label up to its NUL terminator.
func (h ChunkHeader) LabelString() string {
	if i := bytes.IndexByte(h.Label[:], 0); i >= 0 {
		return string(h.Label[:i])
	}
	return string(h.Label[:])
}

// labelLength returns the label length including its NUL terminator.
func (h ChunkHeader) labelLength() (int, error) {
	i := bytes.IndexByte(h.Label[:], 0)
	if i < 0 {
		return 0, fmt.Errorf("%w: chunk %s %d has no label terminator", ErrLabelTooLong, h.TypeString(), h.ID)
	}
	return i + 1, nil
}

// EncodeChunkHeader writes a header to a byte slice.
func EncodeChunkHeader(h ChunkHeader) []byte {
	buf := make([]byte, ChunkHeaderSize)
	copy(buf[0:4], h.Type[:])
	binary.BigEndian.PutUint32(buf[4:8], h.Size)
	binary.BigEndian.PutUint16(buf[8:10], uint16(h.ID))
	binary.BigEndian.PutUint16(buf[10:12], h.Flags)
	copy(buf[12:76], h.Label[:])
	return buf
}

// DecodeChunkHeader reads a header from a byte slice.
func DecodeChunkHeader(buf []byte) (ChunkHeader, error) {
	if len(buf) < ChunkHeaderSize {
		return ChunkHeader{}, ErrTruncated
	}
	var h ChunkHeader
	copy(h.Type[:], buf[0:4])
	h.Size = binary.BigEndian.Uint32(buf[4:8])
	h.ID = ChunkID(binary.BigEndian.Uint16(buf[8:10]))
	h.Flags = binary.BigEndian.Uint16(buf[10:12])
	copy(h.Label[:], buf[12:76])
	return h, nil
}

// Chunk is a header plus its opaque payload.
type Chunk struct {
	Header ChunkHeader
	Data   []byte
}

// NewChunk builds a chunk with the default flags and a NUL-padded label.
func NewChunk(typ string, id ChunkID, label string, data []byte) (Chunk, error) {
	h, err := NewChunkHeader(typ, id, label, len(data))
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Header: h, Data: data}, nil
}

// NewChunkHeader builds a header for a payload of dataSize bytes.
func NewChunkHeader(typ string, id ChunkID, label string, dataSize int) (ChunkHeader, error) {
	if len(typ) != 4 {
		return ChunkHeader{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if len(label)+1 > LabelSize || bytes.IndexByte([]byte(label), 0) >= 0 {
		return ChunkHeader{}, fmt.Errorf("%w: %q is larger than %d bytes", ErrLabelTooLong, label, LabelSize-1)
	}
	h := ChunkHeader{
		Size:  uint32(ChunkHeaderSize + dataSize),
		ID:    id,
		Flags: DefaultChunkFlags,
	}
	copy(h.Type[:], typ)
	copy(h.Label[:], label)
	return h, nil
}

// Type returns the chunk type tag.
func (c Chunk) Type() string {
	return c.Header.TypeString()
}

// Label returns the chunk label.
func (c Chunk) Label() string {
	return c.Header.LabelString()
}

// Size returns the on-disk size of the chunk including its header.
func (c Chunk) Size() int {
	return ChunkHeaderSize + len(c.Data)
}

// String identifies the chunk in log and error messages.
func (c Chunk) String() string {
	return fmt.Sprintf("%s %d %q", c.Type(), c.Header.ID, c.Label())
}

// Clone returns a copy of the chunk with its own payload buffer.
func (c Chunk) Clone() Chunk {
	return Chunk{Header: c.Header, Data: bytes.Clone(c.Data)}
}

// AppendTo appends the encoded chunk to buf.
func (c Chunk) AppendTo(buf []byte) ([]byte, error) {
	if int(c.Header.Size) != c.Size() {
		return buf, fmt.Errorf("%w: chunk %s declares %d bytes but holds %d", ErrSchema, c, c.Header.Size, c.Size())
	}
	if _, err := c.Header.labelLength(); err != nil {
		return buf, err
	}
	buf = append(buf, EncodeChunkHeader(c.Header)...)
	return append(buf, c.Data...), nil
}
