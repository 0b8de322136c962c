package sprite

import (
	"encoding/binary"
	"fmt"
)

// Sprite chunk versions.
const (
	LegacyVersion uint32 = 504
	ModernVersion uint32 = 1000

	payloadHeaderSize = 12
)

// Payload is a sprite chunk payload: a header, an offset table and the
// encoded frames.
type Payload struct {
	Version   uint32
	PaletteID int32
	Frames    [][]byte
}

// Encode lays the frames out after the header and the offset table. Offsets
// are absolute from the start of the payload.
func (p Payload) Encode() []byte {
	size := payloadHeaderSize + 4*len(p.Frames)
	for _, fr := range p.Frames {
		size += len(fr)
	}

	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, p.Version)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(p.Frames)))
	out = binary.LittleEndian.AppendUint32(out, uint32(p.PaletteID))

	offset := uint32(payloadHeaderSize + 4*len(p.Frames))
	for _, fr := range p.Frames {
		out = binary.LittleEndian.AppendUint32(out, offset)
		offset += uint32(len(fr))
	}
	for _, fr := range p.Frames {
		out = append(out, fr...)
	}
	return out
}

// DecodePayload splits a sprite chunk payload into its frames. Frame slices
// alias data.
func DecodePayload(data []byte) (Payload, error) {
	if len(data) < payloadHeaderSize {
		return Payload{}, fmt.Errorf("%w: sprite payload is %d bytes", ErrMalformedStream, len(data))
	}
	p := Payload{
		Version:   binary.LittleEndian.Uint32(data[0:4]),
		PaletteID: int32(binary.LittleEndian.Uint32(data[8:12])),
	}
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	if count > (len(data)-payloadHeaderSize)/4 {
		return Payload{}, fmt.Errorf("%w: %d frames in %d bytes", ErrMalformedStream, count, len(data))
	}

	offsets := make([]int, count+1)
	for i := range count {
		offsets[i] = int(binary.LittleEndian.Uint32(data[payloadHeaderSize+4*i:]))
	}
	offsets[count] = len(data)

	first := payloadHeaderSize + 4*count
	for i := range count {
		if offsets[i] < first || offsets[i] > offsets[i+1] {
			return Payload{}, fmt.Errorf("%w: frame %d offset %d", ErrMalformedStream, i, offsets[i])
		}
		p.Frames = append(p.Frames, data[offsets[i]:offsets[i+1]])
	}
	return p, nil
}
