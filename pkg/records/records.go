// Package records builds the replacement chunks of a rebuilt archive from
// an object description: object definitions, slots, draw groups, palettes
// and sprites.
//
// Every builder returns complete chunks (header and little-endian payload)
// ready to append to an archive. Errors name the record by id and label.
package records

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/eunmann/iffc/pkg/iff"
)

// payload accumulates a little-endian record payload.
type payload []byte

func (p *payload) u16(v uint16) { *p = binary.LittleEndian.AppendUint16(*p, v) }
func (p *payload) u32(v uint32) { *p = binary.LittleEndian.AppendUint32(*p, v) }
func (p *payload) i32(v int32)  { p.u32(uint32(v)) }
func (p *payload) f32(v float32) {
	p.u32(math.Float32bits(v))
}
func (p *payload) tag(s string) { *p = append(*p, s...) }

// newChunk wraps iff.NewChunk with the record's identity in the error.
func newChunk(typ string, id iff.ChunkID, label string, data []byte) (iff.Chunk, error) {
	c, err := iff.NewChunk(typ, id, label, data)
	if err != nil {
		return iff.Chunk{}, fmt.Errorf("build %s %d %s: %w", typ, id, label, err)
	}
	return c, nil
}
