package records

import (
	"context"
	"fmt"
	"slices"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
)

// Palette layout.
const (
	PaletteVersion = 1
	PaletteSize    = 784
)

// InvalidPaletteIndex marks a palette without the transparent color. No
// sprite uses index 255 for pixels, so it never collides with a real entry.
const InvalidPaletteIndex = 255

// Transparent color of the color channel palettes.
const (
	transparentR = 255
	transparentG = 255
	transparentB = 0
)

// Palette is a built PALT chunk and the palette index of its transparent
// color, or InvalidPaletteIndex.
type Palette struct {
	Chunk            iff.Chunk
	TransparentIndex uint8
}

// BuildPalettes encodes one PALT chunk per palette id used by a sprite, in
// ascending id order. Each palette is read from the color channel of the
// first frame of the first sprite using it.
func BuildPalettes(ctx context.Context, d *description.Description, sourceDir string, cache *bitmap.Cache) ([]Palette, error) {
	log := logctx.FromContext(ctx)

	ids := d.PaletteIDs()
	slices.Sort(ids)

	palettes := make([]Palette, 0, len(ids))
	for _, id := range ids {
		s := &d.Sprites[slices.IndexFunc(d.Sprites, func(s description.Sprite) bool { return s.PaletteID == id })]
		if len(s.Frames) == 0 {
			return nil, fmt.Errorf("build %s %d: sprite %d %s has no frames", iff.TypePalette, id, s.ID, s.Label)
		}
		path, err := s.Frames[0].ChannelPath(sourceDir, description.ChannelColor)
		if err != nil {
			return nil, fmt.Errorf("build %s %d: sprite %d %s: %w", iff.TypePalette, id, s.ID, s.Label, err)
		}

		p, err := BuildPalette(id, path, cache)
		if err != nil {
			return nil, err
		}
		if p.TransparentIndex == InvalidPaletteIndex {
			log.Warn().
				Int16("palette", int16(id)).
				Str("bitmap", path).
				Msg("transparent color not found in palette")
		} else {
			log.Debug().
				Int16("palette", int16(id)).
				Uint8("transparent_index", p.TransparentIndex).
				Msg("built palette")
		}
		palettes = append(palettes, p)
	}
	return palettes, nil
}

// BuildPalette encodes the PALT chunk id from the color table of the 8-bit
// bitmap at path.
func BuildPalette(id iff.ChunkID, path string, cache *bitmap.Cache) (Palette, error) {
	img, err := cache.Load(path)
	if err != nil {
		return Palette{}, fmt.Errorf("build %s %d: %w", iff.TypePalette, id, err)
	}
	rgb, err := img.RGB()
	if err != nil {
		return Palette{}, fmt.Errorf("build %s %d: %s: %w", iff.TypePalette, id, path, err)
	}

	p := make(payload, 0, PaletteSize)
	p.u32(PaletteVersion)
	p.u32(bitmap.PaletteSize)
	p.u32(0)
	p.u32(0)
	p = append(p, rgb...)
	if len(p) != PaletteSize {
		panic(fmt.Sprintf("records: palette payload is %d bytes, want %d", len(p), PaletteSize))
	}

	c, err := newChunk(iff.TypePalette, id, "", p)
	if err != nil {
		return Palette{}, err
	}

	transparent := uint8(InvalidPaletteIndex)
	if i, ok := img.IndexOf(transparentR, transparentG, transparentB); ok {
		transparent = uint8(i)
	}
	return Palette{Chunk: c, TransparentIndex: transparent}, nil
}
