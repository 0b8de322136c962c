package iff

import (
	"encoding/binary"
	"fmt"
)

const (
	// InstructionSize is the width of one BHAV instruction.
	InstructionSize = 12
	// guidOperandOffset is the position of a GUID operand inside an instruction.
	guidOperandOffset = 4
)

// guidOpcodes are the instructions whose operand at +4 is an object GUID.
var guidOpcodes = [...]byte{31, 32, 42}

func carriesGUID(op byte) bool {
	for _, g := range guidOpcodes {
		if op == g {
			return true
		}
	}
	return false
}

// PatchBHAV rewrites GUID operands in a BHAV chunk from source to target
// GUIDs and returns the number of operands changed. The chunk payload is
// replaced by a copy before patching, so chunks aliasing a read-only
// mapping are safe to pass.
func PatchBHAV(c *Chunk, remap *GUIDRemap) (int, error) {
	if c.Type() != TypeBehavior {
		return 0, fmt.Errorf("%w: %s is not a behavior", ErrDecode, c)
	}
	if len(c.Data)%InstructionSize != 0 {
		return 0, fmt.Errorf("%w: behavior %s is %d bytes, not a multiple of %d",
			ErrDecode, c, len(c.Data), InstructionSize)
	}

	var data []byte
	patched := 0
	for pos := 0; pos < len(c.Data); pos += InstructionSize {
		if !carriesGUID(c.Data[pos]) {
			continue
		}
		operand := pos + guidOperandOffset
		guid := int32(binary.LittleEndian.Uint32(c.Data[operand:]))
		target, ok := remap.Replace(guid)
		if !ok || target == guid {
			continue
		}
		if data == nil {
			data = make([]byte, len(c.Data))
			copy(data, c.Data)
		}
		binary.LittleEndian.PutUint32(data[operand:], uint32(target))
		patched++
	}
	if data != nil {
		c.Data = data
	}
	return patched, nil
}
