package records

import (
	"fmt"

	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/sprite"
)

// CustomWallTransparentIndex is the transparent palette index of custom
// wall style sprites.
const CustomWallTransparentIndex = 255

// BuildSprite encodes an SPR# or SPR2 chunk from the frame channel bitmaps.
// Safe for concurrent use when the cache is.
func BuildSprite(s *description.Sprite, sourceDir string, cache *bitmap.Cache) (iff.Chunk, error) {
	typ := s.Type.ChunkType()
	legacy := s.Type == description.SpriteLegacy

	p := sprite.Payload{
		Version:   sprite.ModernVersion,
		PaletteID: int32(s.PaletteID),
		Frames:    make([][]byte, len(s.Frames)),
	}
	if legacy {
		p.Version = sprite.LegacyVersion
	}

	for i := range s.Frames {
		f := &s.Frames[i]
		var (
			data []byte
			err  error
		)
		if legacy {
			data, err = legacyFrame(s, f, sourceDir, cache)
		} else {
			data, err = modernFrame(f, sourceDir, cache)
		}
		if err != nil {
			return iff.Chunk{}, fmt.Errorf("build %s %d %s frame %d: %w", typ, s.ID, s.Label, f.Index, err)
		}
		p.Frames[i] = data
	}

	return newChunk(typ, s.ID, s.Label, p.Encode())
}

// loadPlane crops the channel bitmap of a frame to its bounds.
func loadPlane(f *description.SpriteFrame, channel, sourceDir string, cache *bitmap.Cache) ([]byte, error) {
	path, err := f.ChannelPath(sourceDir, channel)
	if err != nil {
		return nil, err
	}
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	plane, err := img.Crop(f.Bounds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plane, nil
}

func modernFrame(f *description.SpriteFrame, sourceDir string, cache *bitmap.Cache) ([]byte, error) {
	fr := sprite.Frame{
		Width:            int(f.Width),
		Height:           int(f.Height),
		Top:              int(f.Y),
		Left:             int(f.X),
		PaletteID:        int16(f.PaletteID),
		TransparentIndex: f.TransparentIndex,
	}

	var err error
	if fr.Color, err = loadPlane(f, description.ChannelColor, sourceDir, cache); err != nil {
		return nil, err
	}
	if fr.Depth, err = loadPlane(f, description.ChannelDepth, sourceDir, cache); err != nil {
		return nil, err
	}
	if fr.Alpha, err = loadPlane(f, description.ChannelAlpha, sourceDir, cache); err != nil {
		return nil, err
	}
	return sprite.EncodeFrame(fr)
}

// legacyFrame encodes the color plane of a legacy frame. A frame without a
// rectangle covers its whole bitmap.
func legacyFrame(s *description.Sprite, f *description.SpriteFrame, sourceDir string, cache *bitmap.Cache) ([]byte, error) {
	path, err := f.ChannelPath(sourceDir, description.ChannelColor)
	if err != nil {
		return nil, err
	}
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := f.Bounds()
	if bounds.Empty() {
		bounds = sprite.Rect{Right: img.Width, Bottom: img.Height}
	}
	pix, err := img.Crop(bounds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	transparent := f.TransparentIndex
	if s.IsCustomWallStyle() {
		transparent = CustomWallTransparentIndex
	}
	return sprite.EncodeLegacyFrame(sprite.LegacyFrame{
		Width:            bounds.Width(),
		Height:           bounds.Height(),
		TransparentIndex: transparent,
		Pixels:           pix,
	})
}
