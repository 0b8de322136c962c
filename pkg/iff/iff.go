// Package iff reads and writes IFF resource archives.
//
// An archive is a 64-byte preamble followed by a contiguous list of chunks.
// Each chunk carries a 76-byte big-endian header (type, size, id, flags,
// label) and an opaque payload. The package also owns the pieces of the
// rebuild that operate on raw chunks: GUID extraction and remapping, the
// rsmp resource directory and the BHAV GUID operand patch.
package iff

const (
	// PreambleSize is the size of the archive preamble in bytes.
	PreambleSize = 64
	// ChunkHeaderSize is the size of a chunk header in bytes.
	ChunkHeaderSize = 76
	// LabelSize is the size of the NUL-padded label field.
	LabelSize = 64

	// DefaultChunkFlags is written into every chunk header built by this package.
	DefaultChunkFlags uint16 = 0x10

	// directoryOffsetField is the position of the big-endian rsmp offset in the preamble.
	directoryOffsetField = 60
)

// Magic is the fixed preamble text preceding the directory offset.
const Magic = "IFF FILE 2.5:TYPE FOLLOWED BY SIZE\x00 JAMIE DOORNBOS & MAXIS 1"

// Chunk type tags.
const (
	TypeObjectDefinition = "OBJD"
	TypeSlot             = "SLOT"
	TypeDrawGroup        = "DGRP"
	TypePalette          = "PALT"
	TypeLegacySprite     = "SPR#"
	TypeSprite           = "SPR2"
	TypeDirectory        = "rsmp"
	TypeBehavior         = "BHAV"
)

// ReplaceableTypes are stripped from a source archive and regenerated on rebuild.
var ReplaceableTypes = []string{
	TypeDrawGroup,
	TypeObjectDefinition,
	TypePalette,
	TypeSlot,
	TypeLegacySprite,
	TypeSprite,
	TypeDirectory,
}

// IsReplaceable reports whether chunks of the given type are regenerated on rebuild.
func IsReplaceable(typ string) bool {
	for _, t := range ReplaceableTypes {
		if t == typ {
			return true
		}
	}
	return false
}
