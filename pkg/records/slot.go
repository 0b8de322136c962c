package records

import (
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
)

// Slot layout.
const (
	SlotVersion        = 10
	slotHeaderSize     = 16
	SlotDescriptorSize = 70
)

// BuildSlot encodes a SLOT chunk. Absent descriptor attributes take their
// defaults.
func BuildSlot(s *description.Slot) (iff.Chunk, error) {
	p := make(payload, 0, slotHeaderSize+SlotDescriptorSize*len(s.Descriptors))
	p.u32(0)
	p.u32(SlotVersion)
	p.tag("TOLS")
	p.u32(uint32(len(s.Descriptors)))

	for _, d := range s.Descriptors {
		r := d.Resolve()
		p.u16(uint16(r.Type))
		p.f32(r.XOffset)
		p.f32(r.YOffset)
		p.f32(r.AltOffset)
		p.i32(r.Standing)
		p.i32(r.Sitting)
		p.i32(r.Ground)
		p.i32(r.RSFlags)
		p.i32(r.SnapTargetSlot)
		p.i32(r.MinProximity)
		p.i32(r.MaxProximity)
		p.i32(r.OptimalProximity)
		p.i32(r.MaxSize)
		p.i32(r.Flags)
		p.f32(r.Gradient)
		p.i32(r.Height)
		p.i32(r.Facing)
		p.i32(r.Resolution)
	}

	return newChunk(iff.TypeSlot, s.ID, s.Label, p)
}
