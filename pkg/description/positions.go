package description

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
)

// UpdateSpritePositions refreshes the frame bounds of every modern sprite.
//
// A frame whose channel directory holds an image description takes its
// bounds, palette and transparent index from it, and every draw group item
// showing that frame takes its pixel offsets. Other frames get tight bounds
// computed from their alpha bitmap and keep their offsets.
func (d *Description) UpdateSpritePositions(sourceDir string, cache *bitmap.Cache) error {
	for si := range d.Sprites {
		s := &d.Sprites[si]
		if s.Type != SpriteModern {
			continue
		}
		for fi := range s.Frames {
			f := &s.Frames[fi]
			f.PaletteID = s.PaletteID

			alphaPath, err := f.ChannelPath(sourceDir, ChannelAlpha)
			if err != nil {
				return fmt.Errorf("sprite %d %s: %w", s.ID, s.Label, err)
			}

			descPath := ImageDescriptionPath(filepath.Dir(alphaPath), f.Zoom, f.Rotation)
			if !fileutil.IsFile(descPath) {
				alpha, err := cache.Load(alphaPath)
				if err != nil {
					return fmt.Errorf("sprite %d %s frame %d: %w", s.ID, s.Label, f.Index, err)
				}
				desc := ComputeImageDescription(alpha, f.Zoom, s.PaletteID, f.TransparentIndex)
				f.SetBounds(desc.Bounds)
				continue
			}

			desc, err := ReadImageDescription(descPath)
			if err != nil {
				return fmt.Errorf("sprite %d %s frame %d: %w", s.ID, s.Label, f.Index, err)
			}
			s.PaletteID = desc.PaletteID
			f.PaletteID = desc.PaletteID
			f.TransparentIndex = desc.TransparentIndex
			f.SetBounds(desc.Bounds)
			d.setItemOffsets(s.ID, f.Index, desc)
		}
	}
	return nil
}

func (d *Description) setItemOffsets(spriteID iff.ChunkID, frame uint32, desc *ImageDescription) {
	for gi := range d.DrawGroups {
		lists := d.DrawGroups[gi].ItemLists
		for li := range lists {
			items := lists[li].Items
			for ii := range items {
				it := &items[ii]
				if it.SpriteID != spriteID || it.SpriteFrame != frame {
					continue
				}
				if it.Flipped() {
					it.PixelX = int32(desc.Offsets.XFlipped)
				} else {
					it.PixelX = int32(desc.Offsets.X)
				}
				it.PixelY = int32(desc.Offsets.Y)
			}
		}
	}
}

// UpdateSpriteVariants points the color channel of every modern sprite frame
// at another variant's sprite directory.
func (d *Description) UpdateSpriteVariants(from, to string) error {
	oldDir := " - " + from + " - sprites"
	newDir := " - " + to + " - sprites"
	for si := range d.Sprites {
		s := &d.Sprites[si]
		if s.Type != SpriteModern {
			continue
		}
		for fi := range s.Frames {
			f := &s.Frames[fi]
			file, ok := f.Channel(ChannelColor)
			if !ok {
				return fmt.Errorf("sprite %d %s: %w: frame %d has no %q channel",
					s.ID, s.Label, ErrMissingChannel, f.Index, ChannelColor)
			}
			f.setChannel(ChannelColor, strings.Replace(file, oldDir, newDir, 1))
		}
	}
	return nil
}
