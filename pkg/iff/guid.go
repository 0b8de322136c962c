package iff

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
)

// GUIDOffset is the position of the little-endian GUID inside an OBJD payload.
const GUIDOffset = 28

// GUIDMap maps object definition chunk ids to their GUIDs.
type GUIDMap map[ChunkID]int32

// IDs returns the map keys in ascending order.
func (m GUIDMap) IDs() []ChunkID {
	return slices.Sorted(maps.Keys(m))
}

// ExtractGUIDs reads the GUID of every OBJD chunk. The first chunk with a
// given id wins; later duplicates are ignored.
func ExtractGUIDs(chunks []Chunk) (GUIDMap, error) {
	guids := make(GUIDMap)
	for _, c := range chunks {
		if c.Type() != TypeObjectDefinition {
			continue
		}
		if _, seen := guids[c.Header.ID]; seen {
			continue
		}
		if len(c.Data) < GUIDOffset+4 {
			return nil, fmt.Errorf("%w: object definition %s is %d bytes, GUID needs %d",
				ErrTruncated, c, len(c.Data), GUIDOffset+4)
		}
		guids[c.Header.ID] = int32(binary.LittleEndian.Uint32(c.Data[GUIDOffset:]))
	}
	if len(guids) == 0 {
		return nil, ErrNoGUIDs
	}
	return guids, nil
}

// GUIDRemap resolves the GUIDs of a rebuilt archive from the GUIDs of the
// archive it was built from.
type GUIDRemap struct {
	source  GUIDMap
	target  GUIDMap
	reverse map[int32]int32
}

// RemapGUIDs pairs the GUIDs of the source archive with those of the target.
// Both maps must cover the same chunk ids. When distinct is set the archives
// are different files and at least one GUID must differ.
func RemapGUIDs(source, target GUIDMap, distinct bool) (*GUIDRemap, error) {
	for _, id := range source.IDs() {
		if _, ok := target[id]; !ok {
			return nil, fmt.Errorf("%w: object definition %d missing from target", ErrGUIDKeyMismatch, id)
		}
	}
	for _, id := range target.IDs() {
		if _, ok := source[id]; !ok {
			return nil, fmt.Errorf("%w: object definition %d missing from source", ErrGUIDKeyMismatch, id)
		}
	}

	if distinct && maps.Equal(source, target) {
		return nil, ErrDuplicateVariant
	}

	r := &GUIDRemap{
		source:  source,
		target:  target,
		reverse: make(map[int32]int32, len(source)),
	}
	// Ascending ids so the lowest id wins when GUIDs repeat.
	for _, id := range source.IDs() {
		if _, ok := r.reverse[source[id]]; !ok {
			r.reverse[source[id]] = target[id]
		}
	}
	return r, nil
}

// Target returns the GUID the rebuilt archive uses for an object definition.
func (r *GUIDRemap) Target(id ChunkID) (int32, error) {
	guid, ok := r.target[id]
	if !ok {
		return 0, fmt.Errorf("%w: object definition %d", ErrMissingGUID, id)
	}
	return guid, nil
}

// Replace maps a source GUID to its target GUID.
func (r *GUIDRemap) Replace(guid int32) (int32, bool) {
	target, ok := r.reverse[guid]
	return target, ok
}

// Changed reports whether any GUID differs between source and target.
func (r *GUIDRemap) Changed() bool {
	return !maps.Equal(r.source, r.target)
}

// Len returns the number of object definitions covered by the remap.
func (r *GUIDRemap) Len() int {
	return len(r.target)
}
