package description

import "github.com/eunmann/iffc/pkg/iff"

// Slot is one SLOT record: the routing positions of an object.
type Slot struct {
	Label       string           `xml:"name,attr"`
	ID          iff.ChunkID      `xml:"id,attr"`
	Descriptors []SlotDescriptor `xml:"slotdescriptor"`
}

// SlotType is the kind of a slot descriptor.
type SlotType uint16

// Known slot types.
const (
	SlotTypeContainer SlotType = 0
	SlotTypeRouting   SlotType = 1
	SlotTypeTarget    SlotType = 3
)

// Valid reports whether t is a known slot type.
func (t SlotType) Valid() bool {
	return t == SlotTypeContainer || t == SlotTypeRouting || t == SlotTypeTarget
}

// SlotDescriptor is one slot position as exported. Optional attributes are
// nil when absent; Resolve applies their defaults.
type SlotDescriptor struct {
	Type             SlotType `xml:"type,attr"`
	XOffset          float32  `xml:"xoffset,attr"`
	YOffset          float32  `xml:"yoffset,attr"`
	AltOffset        float32  `xml:"altoffset,attr"`
	Standing         *int32   `xml:"standing,attr,omitempty"`
	Sitting          *int32   `xml:"sitting,attr,omitempty"`
	Ground           *int32   `xml:"ground,attr,omitempty"`
	RSFlags          *int32   `xml:"rsflags,attr,omitempty"`
	SnapTargetSlot   *int32   `xml:"snaptargetslot,attr,omitempty"`
	MinProximity     *int32   `xml:"minproximity,attr,omitempty"`
	MaxProximity     *int32   `xml:"maxproximity,attr,omitempty"`
	OptimalProximity *int32   `xml:"optimalproximity,attr,omitempty"`
	MaxSize          *int32   `xml:"maxsize,attr,omitempty"`
	Flags            *int32   `xml:"flags,attr,omitempty"`
	Gradient         *float32 `xml:"gradient,attr,omitempty"`
	Height           *int32   `xml:"height,attr,omitempty"`
	Facing           *int32   `xml:"facing,attr,omitempty"`
	Resolution       *int32   `xml:"resolution,attr,omitempty"`
}

// ResolvedSlot is a slot descriptor with every field present.
type ResolvedSlot struct {
	Type             SlotType
	XOffset          float32
	YOffset          float32
	AltOffset        float32
	Standing         int32
	Sitting          int32
	Ground           int32
	RSFlags          int32
	SnapTargetSlot   int32
	MinProximity     int32
	MaxProximity     int32
	OptimalProximity int32
	MaxSize          int32
	Flags            int32
	Gradient         float32
	Height           int32
	Facing           int32
	Resolution       int32
}

// DefaultSlot holds the values used for absent optional attributes.
var DefaultSlot = ResolvedSlot{
	Standing:         1,
	Sitting:          0,
	Ground:           0,
	RSFlags:          0,
	SnapTargetSlot:   -1,
	MinProximity:     16,
	MaxProximity:     16,
	OptimalProximity: 16,
	MaxSize:          100,
	Flags:            0,
	Gradient:         0,
	Height:           5,
	Facing:           -2,
	Resolution:       16,
}

func or[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// Resolve fills absent attributes with their defaults.
func (d SlotDescriptor) Resolve() ResolvedSlot {
	def := DefaultSlot
	return ResolvedSlot{
		Type:             d.Type,
		XOffset:          d.XOffset,
		YOffset:          d.YOffset,
		AltOffset:        d.AltOffset,
		Standing:         or(d.Standing, def.Standing),
		Sitting:          or(d.Sitting, def.Sitting),
		Ground:           or(d.Ground, def.Ground),
		RSFlags:          or(d.RSFlags, def.RSFlags),
		SnapTargetSlot:   or(d.SnapTargetSlot, def.SnapTargetSlot),
		MinProximity:     or(d.MinProximity, def.MinProximity),
		MaxProximity:     or(d.MaxProximity, def.MaxProximity),
		OptimalProximity: or(d.OptimalProximity, def.OptimalProximity),
		MaxSize:          or(d.MaxSize, def.MaxSize),
		Flags:            or(d.Flags, def.Flags),
		Gradient:         or(d.Gradient, def.Gradient),
		Height:           or(d.Height, def.Height),
		Facing:           or(d.Facing, def.Facing),
		Resolution:       or(d.Resolution, def.Resolution),
	}
}
