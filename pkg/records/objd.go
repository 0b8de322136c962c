package records

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
)

// ObjectDefinitionSize is the OBJD payload size.
const ObjectDefinitionSize = 216

func init() {
	if n := binary.Size(description.ObjectFields{}); n != ObjectDefinitionSize {
		panic(fmt.Sprintf("records: object definition fields encode to %d bytes, want %d", n, ObjectDefinitionSize))
	}
}

// BuildObjectDefinition encodes an OBJD chunk carrying the GUID the remap
// assigns to the object.
func BuildObjectDefinition(o *description.ObjectDefinition, remap *iff.GUIDRemap) (iff.Chunk, error) {
	guid, err := remap.Target(o.ID)
	if err != nil {
		return iff.Chunk{}, fmt.Errorf("build %s %d %s: %w", iff.TypeObjectDefinition, o.ID, o.Label, err)
	}

	fields := o.ObjectFields
	fields.GUID = guid

	var buf bytes.Buffer
	buf.Grow(ObjectDefinitionSize)
	if err := binary.Write(&buf, binary.LittleEndian, &fields); err != nil {
		return iff.Chunk{}, fmt.Errorf("build %s %d %s: %w", iff.TypeObjectDefinition, o.ID, o.Label, err)
	}
	if buf.Len() != ObjectDefinitionSize {
		panic(fmt.Sprintf("records: object definition payload is %d bytes, want %d", buf.Len(), ObjectDefinitionSize))
	}

	return newChunk(iff.TypeObjectDefinition, o.ID, o.Label, buf.Bytes())
}
