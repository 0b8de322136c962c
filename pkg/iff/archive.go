package iff

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Archive is a parsed resource archive: the preamble's directory offset and
// the ordered chunk list.
type Archive struct {
	// DirectoryOffset is the absolute offset of the rsmp chunk written into the preamble.
	DirectoryOffset uint32
	Chunks          []Chunk
}

// Parse decodes an archive. Chunk payloads alias data.
func Parse(data []byte) (*Archive, error) {
	if len(data) < PreambleSize {
		return nil, fmt.Errorf("%w: archive is %d bytes, preamble needs %d", ErrTruncated, len(data), PreambleSize)
	}
	if !bytes.Equal(data[:directoryOffsetField], []byte(Magic)) {
		return nil, ErrInvalidMagic
	}

	a := &Archive{
		DirectoryOffset: binary.BigEndian.Uint32(data[directoryOffsetField:PreambleSize]),
	}

	offset := PreambleSize
	for offset < len(data) {
		if len(data)-offset < ChunkHeaderSize {
			return nil, fmt.Errorf("%w: header at offset %d needs %d bytes, %d left",
				ErrTruncated, offset, ChunkHeaderSize, len(data)-offset)
		}
		h, err := DecodeChunkHeader(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("decode header at offset %d: %w", offset, err)
		}
		if h.Size < ChunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk %s %d at offset %d declares %d bytes",
				ErrSizeMismatch, h.TypeString(), h.ID, offset, h.Size)
		}
		if uint64(h.Size) > uint64(len(data)-offset) {
			return nil, fmt.Errorf("%w: chunk %s %d at offset %d declares %d bytes, %d left",
				ErrSizeMismatch, h.TypeString(), h.ID, offset, h.Size, len(data)-offset)
		}

		end := offset + int(h.Size)
		a.Chunks = append(a.Chunks, Chunk{
			Header: h,
			Data:   data[offset+ChunkHeaderSize : end : end],
		})
		offset = end
	}

	return a, nil
}

// Serialize encodes the archive: the preamble followed by every chunk in order.
func (a *Archive) Serialize() ([]byte, error) {
	buf := make([]byte, PreambleSize, a.Size())
	copy(buf, Magic)
	binary.BigEndian.PutUint32(buf[directoryOffsetField:PreambleSize], a.DirectoryOffset)

	var err error
	for i := range a.Chunks {
		buf, err = a.Chunks[i].AppendTo(buf)
		if err != nil {
			return nil, fmt.Errorf("serialize chunk %d: %w", i, err)
		}
	}
	return buf, nil
}

// Size returns the encoded archive size in bytes.
func (a *Archive) Size() int {
	n := PreambleSize
	for i := range a.Chunks {
		n += a.Chunks[i].Size()
	}
	return n
}

// Offsets returns the absolute offset of every chunk.
func (a *Archive) Offsets() []uint32 {
	return chunkOffsets(a.Chunks)
}

// Find returns the first chunk with the given type and id.
func (a *Archive) Find(typ string, id ChunkID) (Chunk, bool) {
	for _, c := range a.Chunks {
		if c.Type() == typ && c.Header.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// CountByType returns the number of chunks per type tag.
func (a *Archive) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, c := range a.Chunks {
		counts[c.Type()]++
	}
	return counts
}

func chunkOffsets(chunks []Chunk) []uint32 {
	offsets := make([]uint32, len(chunks))
	offset := uint32(PreambleSize)
	for i := range chunks {
		offsets[i] = offset
		offset += uint32(chunks[i].Size())
	}
	return offsets
}
